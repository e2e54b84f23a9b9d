package notify

import (
	"context"
	"fmt"
	"log"
	"os"
	"rbs/src/db"
	"rbs/src/lib"
	"rbs/src/lib/mailer"
	"rbs/src/models"
	"time"

	"firebase.google.com/go/v4/messaging"
	"gorm.io/gorm"
)

const dispatchBatchSize = 100

// DispatchQueued drains undelivered notification rows: each one becomes an
// email to the admin plus a push message, and is then marked dispatched.
// Rows are written inside the reservation transaction; delivery happens here,
// out of band, so a slow SMTP server never holds a reservation lock.
func DispatchQueued() {
	dbi := db.GetDb()
	var notifications []models.Notification
	err := dbi.
		Model(&models.Notification{}).
		Where("dispatched = ?", false).
		Preload("User").
		Order("created_at asc").
		Limit(dispatchBatchSize).
		Find(&notifications).
		Error
	if err != nil {
		log.Printf("Error querying queued notifications: %s\n", err.Error())
		return
	}
	if len(notifications) == 0 {
		return
	}
	log.Printf("Dispatching %d notification(s)", len(notifications))
	for _, n := range notifications {
		if err := deliver(&n); err != nil {
			log.Printf("Error delivering notification %d: %s\n", n.ID, err.Error())
			continue
		}
		now := time.Now()
		if err := dbi.Transaction(func(tx *gorm.DB) error {
			return tx.
				Model(&models.Notification{}).
				Where(&models.Notification{ID: n.ID}).
				Updates(map[string]any{"dispatched": true, "dispatched_at": &now}).
				Error
		}); err != nil {
			log.Printf("Error marking notification %d dispatched: %s\n", n.ID, err.Error())
		}
	}
}

func deliver(n *models.Notification) error {
	if n.User == nil || n.User.Email == "" {
		return fmt.Errorf("notification %d has no recipient email", n.ID)
	}
	body := n.Message
	if n.LinkURL != "" {
		body = fmt.Sprintf("%s\n\n%s%s", n.Message, os.Getenv("APP_BASE_URL"), n.LinkURL)
	}
	if err := mailer.NewMailerMessage(&lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: os.Getenv("MAIL_FROM_NAME"),
		To:       []string{n.User.Email},
		Subject:  n.Title,
		Body:     body,
	}); err != nil {
		return err
	}
	go sendPush(n)
	return nil
}

func sendPush(n *models.Notification) {
	fcm, err := lib.GetFirebaseMessaging()
	if err != nil {
		log.Printf("FCM unavailable, skipping push for notification %d\n", n.ID)
		return
	}
	_, err = fcm.Send(context.Background(), &messaging.Message{
		Topic: fmt.Sprintf("user-%d", n.UserID),
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
	})
	if err != nil {
		log.Printf("Error sending push for notification %d: %s\n", n.ID, err.Error())
	}
}
