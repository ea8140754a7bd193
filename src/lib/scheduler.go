package lib

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error creating scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = s
	return s, nil
}

// CreateCronJob registers a recurring task on the process scheduler.
func CreateCronJob(handler any, duration time.Duration, args ...any) (*string, error) {
	s, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	j, err := s.NewJob(
		gocron.DurationJob(duration),
		gocron.NewTask(handler, args...),
	)
	if err != nil {
		log.Printf("Error creating job: %s\n", err.Error())
		return nil, err
	}
	id := j.ID().String()
	return &id, nil
}
