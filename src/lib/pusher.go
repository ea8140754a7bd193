package lib

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pusher/pusher-http-go/v5"
)

var pusherClient *pusher.Client

func GetPusherClient() *pusher.Client {
	if pusherClient != nil {
		return pusherClient
	}
	pusherClient = &pusher.Client{
		AppID:   os.Getenv("PUSHER_APP_ID"),
		Key:     os.Getenv("PUSHER_KEY"),
		Secret:  os.Getenv("PUSHER_SECRET"),
		Cluster: os.Getenv("PUSHER_CLUSTER"),
	}
	return pusherClient
}

func NewPusherClient(c *pusher.Client) {
	pusherClient = c
}

// BroadcastBoothStatus pushes a booth-status-update to the event's live
// update channel. Delivery is best effort; failures never reach callers.
func BroadcastBoothStatus(eventID, boothID uint, status string) {
	client := GetPusherClient()
	if client.AppID == "" {
		return
	}
	channel := fmt.Sprintf("event-%d-booths", eventID)
	err := client.Trigger(channel, "booth-status-update", map[string]any{
		"booth_id":  boothID,
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		log.Printf("[pusher] Error broadcasting to %s: %s\n", channel, err.Error())
	}
}
