package boot

import (
	"log"
	"xbs/src/config"
	"xbs/src/db"
	"xbs/src/lib"
	"xbs/src/models"
	"xbs/src/reservations"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Booth{},
		&models.Reservation{},
		&models.Transaction{},
		&models.Invoice{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler starts the local scheduler and registers the expired-hold
// sweep. The sweep keeps listings fresh; lazy expiry keeps things correct.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	interval := config.Get().SweepInterval
	_, err = lib.CreateCronJob(func() {
		if _, err := reservations.SweepExpired(); err != nil {
			log.Printf("Error sweeping expired holds: %s\n", err.Error())
		}
	}, interval)
	if err != nil {
		log.Printf("Error scheduling sweep: %s\n", err.Error())
		return
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
