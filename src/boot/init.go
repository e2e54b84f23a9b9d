package boot

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path"
	"rbs/src/booking"
	"rbs/src/db"
	"rbs/src/directory"
	"rbs/src/lib"
	awslib "rbs/src/lib/aws"
	"rbs/src/models"
	"rbs/src/notify"
	"rbs/src/types"
	"rbs/src/utils"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Resource{},
		&models.Activity{},
		&models.Reservation{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	directory.New(db, lib.GetRedisClient()).BackfillSlugs()

	return db
}

// InitScheduler starts the recurring jobs: notification outbox dispatch and
// the sweep that cancels pending requests whose window has already passed.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(notify.DispatchQueued),
	); err != nil {
		log.Printf("Error scheduling outbox dispatch: %s\n", err.Error())
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(ExpireStalePending),
	); err != nil {
		log.Printf("Error scheduling expiry sweep: %s\n", err.Error())
	}
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

// ExpireStalePending cancels pending reservations whose end time has passed
// without a decision. Cancelled keeps the status set closed; the sweep acts
// as the system deciding "too late".
func ExpireStalePending() {
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Reservation{}).
			Where("status = ?", types.RESERVATION_PENDING).
			Where("end_time < ?", time.Now()).
			Update("status", types.RESERVATION_CANCELLED).
			Error
	})
	if err != nil {
		log.Printf("Error while expiring stale reservations: %s\n", err.Error())
	}
}

func InitBroker() {
	topics := []string{
		booking.TopicReservationRequested,
		booking.TopicReservationApproved,
		booking.TopicReservationDenied,
		booking.TopicReservationCancelled,
		os.Getenv("EMAIL_QUEUE"),
	}
	suffixed := make([]string, 0, len(topics))
	for _, t := range topics {
		suffixed = append(suffixed, utils.WithSuffix(t))
	}
	go lib.KafkaCreateTopics(suffixed...)
	go notify.EmailQueueConsumer()
	if os.Getenv("API_ENV") != "local" {
		go SNSSubscribes()
	}
}

func SNSSubscribes() {
	updates := awslib.NewSNSSubscriber("ReservationUpdates")
	if updates == nil {
		return
	}
	updates.Subscribe("sqs", lib.GetQueueArn(utils.WithSuffix(os.Getenv("EMAIL_QUEUE"))))
}

// DownloadSDKFileFromS3 fetches the FCM admin credentials from the secrets
// bucket when they are not already on disk.
func DownloadSDKFileFromS3() {
	filename := "admin-sdk-credentials.json"
	secretsDir := os.Getenv("SECRETS_DIR")
	sdkFilePath := path.Join(secretsDir, filename)
	_, err := os.Stat(sdkFilePath)
	if errors.Is(err, os.ErrNotExist) {
		log.Println("File not found. Downloading...")
		client := lib.AWSGetS3Client()
		secretsBucket := os.Getenv("S3_SECRETS_BUCKET")
		object, err := client.GetObject(context.Background(), &s3.GetObjectInput{
			Bucket: aws.String(secretsBucket),
			Key:    aws.String(filename),
		})
		if err != nil {
			log.Printf("[S3] Error retrieving object: %s\n", err.Error())
			return
		}
		defer object.Body.Close()
		file, err := os.Create(sdkFilePath)
		if err != nil {
			log.Printf("Could not create file %s: %s\n", filename, err.Error())
			return
		}
		defer file.Close()
		body, err := io.ReadAll(object.Body)
		if err != nil {
			log.Printf("Couldn't read object body from %s: %s\n", filename, err.Error())
			return
		}
		if _, err := file.Write(body); err != nil {
			log.Printf("Error writing to file: %s\n", err.Error())
			return
		}
		log.Println("File has been written")
	}
}
