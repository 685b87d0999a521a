package db

// AddSubscriber registers a chat for notifications. Re-registering a chat
// that was deactivated turns it active again.
func AddSubscriber(chatID string) error {
	_, err := DB.Exec(`
		INSERT INTO subscribers (chat_id, active)
		VALUES ($1, TRUE)
		ON CONFLICT (chat_id) DO UPDATE SET active = TRUE`,
		chatID)
	return err
}

// DeactivateSubscriber marks a chat as unreachable. The row is kept so stats
// stay correlated.
func DeactivateSubscriber(chatID string) error {
	_, err := DB.Exec("UPDATE subscribers SET active = FALSE WHERE chat_id = $1", chatID)
	return err
}

// ActiveSubscribers returns the active chat ids in registration order.
func ActiveSubscribers() ([]string, error) {
	var chatIDs []string
	err := DB.Select(&chatIDs, "SELECT chat_id FROM subscribers WHERE active ORDER BY added_at")
	return chatIDs, err
}

func ActiveSubscriberCount() (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM subscribers WHERE active")
	return count, err
}
