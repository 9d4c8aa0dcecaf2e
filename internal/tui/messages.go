package tui

import (
	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/service"
)

// envelope addresses a message to one mounted screen. Messages whose
// session no longer matches a mounted screen are dropped by the App.
type envelope struct {
	session uint64
}

func (e envelope) screenSession() uint64 { return e.session }

type screenMsg interface {
	screenSession() uint64
}

// Discovery messages.
type categoriesLoadedMsg struct {
	err        error
	categories []model.Category
	envelope
}

type venuesLoadedMsg struct {
	err        error
	categoryID string
	venues     []model.Venue
	envelope
	generation uint64
}

type animateCameraMsg struct {
	envelope
	center model.Coordinate
	zoom   float64
}

// Navigation messages.
type openVenueMsg struct {
	venueID string
	envelope
}

type navigateBackMsg struct {
	envelope
}

type redirectHomeMsg struct {
	envelope
}

// Redemption messages.
type detailLoadedMsg struct {
	err    error
	detail *model.VenueDetail
	coupon string
	envelope
	generation uint64
}

type permissionResultMsg struct {
	err error
	envelope
	granted bool
}

type cameraStreamMsg struct {
	err    error
	events <-chan service.ScanEvent
	envelope
	camera uint64
}

type scanEventMsg struct {
	data string
	envelope
	camera uint64
}

type scanStreamClosedMsg struct {
	envelope
	camera uint64
}

type scanHandoffMsg struct {
	code string
	envelope
}

type couponRedeemedMsg struct {
	err    error
	code   string
	coupon model.Coupon
	envelope
}
