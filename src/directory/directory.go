package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"rbs/src/booking"
	"rbs/src/models"
	"time"

	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const cacheTTL = 5 * time.Minute

// Directory answers the engine's questions about resources, owner
// organizations and their administrators. Policy fields rarely change, so
// lookups go through a redis read-through cache when a client is available.
type Directory struct {
	db  *gorm.DB
	rdb *redis.Client
}

func New(db *gorm.DB, rdb *redis.Client) *Directory {
	return &Directory{db: db, rdb: rdb}
}

func (d *Directory) ResolveResource(ctx context.Context, id uint) (*booking.ResourceInfo, error) {
	key := fmt.Sprintf("directory:resource:%d", id)
	if d.rdb != nil {
		if cached, err := d.rdb.Get(ctx, key).Result(); err == nil {
			var info booking.ResourceInfo
			if err := json.Unmarshal([]byte(cached), &info); err == nil {
				return &info, nil
			}
		}
	}

	var resource models.Resource
	err := d.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where(&models.Resource{ID: id}).
		Preload("Organization").
		First(&resource).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "resource", ID: id}
		}
		return nil, err
	}

	info := booking.ResourceInfo{
		ID:             resource.ID,
		OrganizationID: resource.OrganizationID,
		Poolable:       resource.Poolable,
		Name:           resource.Name,
	}
	if resource.Organization != nil {
		info.BookingWindowDays = resource.Organization.BookingWindowDays
	}
	if d.rdb != nil {
		if body, err := json.Marshal(&info); err == nil {
			if err := d.rdb.Set(ctx, key, string(body), cacheTTL).Err(); err != nil {
				log.Printf("Failed to cache %s: %s\n", key, err.Error())
			}
		}
	}
	return &info, nil
}

// ResolveAdmins returns the user ids that approve bookings for the
// organization: its owner plus members with an admin role.
func (d *Directory) ResolveAdmins(ctx context.Context, orgID uint) ([]uint, error) {
	var org models.Organization
	err := d.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where(&models.Organization{ID: orgID}).
		First(&org).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "organization", ID: orgID}
		}
		return nil, err
	}
	var ids []uint
	err = d.db.WithContext(ctx).
		Model(&models.User{}).
		Where(&models.User{ActiveOrg: orgID, Role: "admin"}).
		Pluck("id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	found := false
	for _, id := range ids {
		if id == org.OwnerID {
			found = true
		}
	}
	if !found && org.OwnerID != 0 {
		ids = append(ids, org.OwnerID)
	}
	return ids, nil
}

func (d *Directory) ResolveTenantName(ctx context.Context, orgID uint) (string, error) {
	key := fmt.Sprintf("directory:orgname:%d", orgID)
	if d.rdb != nil {
		if cached, err := d.rdb.Get(ctx, key).Result(); err == nil {
			return cached, nil
		}
	}
	var org models.Organization
	err := d.db.WithContext(ctx).
		Model(&models.Organization{}).
		Select("id", "name").
		Where(&models.Organization{ID: orgID}).
		First(&org).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", &booking.NotFoundError{Entity: "organization", ID: orgID}
		}
		return "", err
	}
	if d.rdb != nil {
		if err := d.rdb.Set(ctx, key, org.Name, cacheTTL).Err(); err != nil {
			log.Printf("Failed to cache %s: %s\n", key, err.Error())
		}
	}
	return org.Name, nil
}

// BackfillSlugs fills missing organization slugs, run at boot.
func (d *Directory) BackfillSlugs() {
	rows, err := d.db.
		Model(&models.Organization{}).
		Where("slug IS NULL OR slug = ''").
		Rows()
	if err != nil {
		log.Printf("Error querying Organizations: %s\n", err.Error())
		return
	}
	defer rows.Close()
	if err := d.db.Transaction(func(tx *gorm.DB) error {
		for rows.Next() {
			var org models.Organization
			if err := tx.ScanRows(rows, &org); err != nil {
				return err
			}
			newSlug := slug.Make(org.Name)
			if err := tx.
				Model(&models.Organization{}).
				Where("id = ?", org.ID).
				Updates(&models.Organization{Slug: fmt.Sprintf("%s-%d", newSlug, org.ID)}).
				Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		log.Printf("Error on update operation: %s\n", err.Error())
	}
}
