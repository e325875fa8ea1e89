package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/booking"
	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
)

// ReferenceData bundles the read-only lookups the booking engine needs
// and implements booking.ReferenceData.  Inactive records are reported
// as not found across the board.
type ReferenceData struct {
	Users      *UserRepo
	Hotels     *HotelRepo
	RoomTypes  *RoomTypeRepo
	Activities *ActivityRepo
}

// NewReferenceData constructs the adapter; all repositories are required.
func NewReferenceData(users *UserRepo, hotels *HotelRepo, roomTypes *RoomTypeRepo, activities *ActivityRepo) *ReferenceData {
	if users == nil || hotels == nil || roomTypes == nil || activities == nil {
		panic("nil repository passed to NewReferenceData")
	}
	return &ReferenceData{Users: users, Hotels: hotels, RoomTypes: roomTypes, Activities: activities}
}

// UserByID resolves an active user for booking validation.
func (r *ReferenceData) UserByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := r.Users.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, booking.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if !u.IsActive {
		return model.User{}, booking.ErrUserNotFound
	}
	return u, nil
}

// HotelByID resolves an active hotel.
func (r *ReferenceData) HotelByID(ctx context.Context, id uint64) (model.Hotel, error) {
	return r.Hotels.GetByID(ctx, id)
}

// RoomTypeByID resolves an active room type.
func (r *ReferenceData) RoomTypeByID(ctx context.Context, id uint64) (model.RoomType, error) {
	return r.RoomTypes.GetByID(ctx, id)
}

// ActivityByID resolves an available activity.
func (r *ReferenceData) ActivityByID(ctx context.Context, id uint64) (model.Activity, error) {
	return r.Activities.GetByID(ctx, id)
}
