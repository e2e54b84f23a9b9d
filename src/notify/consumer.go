package notify

import (
	"encoding/json"
	"log"
	"os"
	"rbs/src/lib"
	awslib "rbs/src/lib/aws"
	"rbs/src/types"
	"rbs/src/utils"

	"github.com/tidwall/gjson"
)

// EmailQueueConsumer listens on the email delivery queue and hands each
// message to the SMTP client. Local environments consume the kafka topic the
// mailer produces to; everywhere else the queue is SQS.
func EmailQueueConsumer() {
	qname := utils.WithSuffix(os.Getenv("EMAIL_QUEUE"))
	if os.Getenv("API_ENV") == "local" {
		lib.KafkaConsumer("email_queue_consumer", []string{qname}, func(value []byte) {
			handleEmailMessage(string(value))
		})
		return
	}
	c := awslib.NewSQSConsumer(qname, func(body string) {
		handleEmailMessage(body)
	})
	c.Listen()
}

func handleEmailMessage(body string) {
	if !gjson.Valid(body) {
		log.Println("[EmailQueue]: Received invalid json body. Aborting")
		return
	}
	var payload types.JSONB
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		log.Printf("Error deserializing JSON: %s\n", err.Error())
		return
	}
	input := lib.SendMailInput{
		From:     gjson.Get(body, "from").String(),
		FromName: gjson.Get(body, "from-name").String(),
		ReplyTo:  gjson.Get(body, "reply-to").String(),
		Subject:  gjson.Get(body, "subject").String(),
		Body:     gjson.Get(body, "body").String(),
		Html:     gjson.Get(body, "html").Bool(),
	}
	for _, to := range gjson.Get(body, "to").Array() {
		input.To = append(input.To, to.String())
	}
	for _, cc := range gjson.Get(body, "cc").Array() {
		input.Cc = append(input.Cc, cc.String())
	}
	for _, bcc := range gjson.Get(body, "bcc").Array() {
		input.Bcc = append(input.Bcc, bcc.String())
	}
	if err := lib.SendMail(&input); err != nil {
		log.Printf("Error sending email: %s\n", err.Error())
	}
}
