package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"xbs/src/config"
	"xbs/src/db"
	"xbs/src/models"
	"xbs/src/types"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func GenerateJWT(email string, userId uint, role string) (string, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))
	claims := &types.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userId),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// NewInvoiceNumber builds a globally unique invoice number. Uniqueness is
// additionally enforced by the index on invoices.number.
func NewInvoiceNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("INV-%d-%s", time.Now().Year(), id[:8])
}

func CreateNewEvent(params *types.CreateEventRequestBody, creatorId uint) (uint, error) {
	startsAt, err := time.Parse(config.TIME_PARSE_FORMAT, params.StartsAt)
	if err != nil {
		return 0, err
	}
	endsAt, err := time.Parse(config.TIME_PARSE_FORMAT, params.EndsAt)
	if err != nil {
		return 0, err
	}
	if !endsAt.After(startsAt) {
		return 0, errors.New("ends_at must be after starts_at")
	}
	status := types.EVENT_DRAFT
	if params.Publish {
		status = types.EVENT_PUBLISHED
	}
	event := models.Event{
		Name:      params.Name,
		Slug:      slug.Make(params.Name),
		Venue:     params.Venue,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Status:    status,
		CreatedBy: creatorId,
	}
	gdb := db.GetDb()
	if err := gdb.Create(&event).Error; err != nil {
		log.Printf("Error creating Event: %s\n", err.Error())
		return 0, err
	}
	return event.ID, nil
}

func CreateBoothsForEvent(eventID uint, items []types.CreateBoothItem) ([]models.Booth, error) {
	gdb := db.GetDb()
	booths := make([]models.Booth, 0, len(items))
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Model(&models.Event{}).
			Where("id = ?", eventID).
			First(&event).
			Error; err != nil {
			return err
		}
		for _, item := range items {
			booth := models.Booth{
				EventID:   eventID,
				Number:    item.Number,
				SizeClass: item.SizeClass,
				Price:     item.Price,
				Currency:  config.Get().Currency,
				Status:    types.BOOTH_AVAILABLE,
			}
			if err := tx.Create(&booth).Error; err != nil {
				return err
			}
			booths = append(booths, booth)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booths, nil
}

func GetBoothsForEvent(eventID uint, filters *types.BoothQueryFilters) ([]models.Booth, error) {
	gdb := db.GetDb()
	q := gdb.
		Model(&models.Booth{}).
		Where("event_id = ?", eventID)
	if filters != nil && filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters != nil && filters.SizeClass != "" {
		q = q.Where("size_class = ?", filters.SizeClass)
	}
	var booths []models.Booth
	err := q.Order("number asc").Find(&booths).Error
	return booths, err
}
