// Package sos covers the emergency broadcast button and the admin rescue
// dashboard. The SOS surface of the backend speaks bare JSON with no
// envelope and is polled rather than pushed.
package sos

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
	"floodwatch-client/pkg/validate"
)

// Locator resolves the device position. High-accuracy geolocation is a
// platform service; callers plug in whatever the platform provides.
type Locator interface {
	CurrentPosition(ctx context.Context) (lat, lng float64, err error)
}

// LocatorFunc adapts a plain function to the Locator interface.
type LocatorFunc func(ctx context.Context) (float64, float64, error)

func (f LocatorFunc) CurrentPosition(ctx context.Context) (float64, float64, error) {
	return f(ctx)
}

// FixedLocator always reports the same coordinates.
func FixedLocator(lat, lng float64) Locator {
	return LocatorFunc(func(context.Context) (float64, float64, error) {
		return lat, lng, nil
	})
}

type Sender struct {
	client *api.Client
}

func NewSender(client *api.Client) *Sender {
	return &Sender{client: client}
}

// Send resolves the position and fires one POST. There is no retry policy:
// on any failure the user is told to press the button again.
func (s *Sender) Send(ctx context.Context, locator Locator, user *models.User, message string) error {
	if locator == nil {
		return errors.New("sos: geolocation unavailable")
	}

	lat, lng, err := locator.CurrentPosition(ctx)
	if err != nil {
		return fmt.Errorf("sos: position fix failed: %w", err)
	}

	input := models.SOSInput{
		Latitude:  lat,
		Longitude: lng,
		Message:   message,
	}
	if user != nil {
		input.UserName = user.FullName
		input.Phone = user.Phone
		if input.Message == "" {
			input.Message = fmt.Sprintf("Emergency SOS from %s!", user.FullName)
		}
	}
	if err := validate.Struct(input); err != nil {
		return err
	}

	if err := s.client.PostRaw(ctx, "/sos/", input, nil); err != nil {
		return fmt.Errorf("sos: send failed, press the button again: %w", err)
	}

	logrus.WithFields(logrus.Fields{"lat": lat, "lng": lng}).Info("SOS broadcast sent")
	return nil
}
