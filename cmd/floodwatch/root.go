package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/config"
	"floodwatch-client/internal/session"
	"floodwatch-client/internal/store"
)

// app wires the client stack: one session, one API client, one store per
// resource. Commands share the same instance through cobra's context.
type app struct {
	cfg     *config.Config
	session *session.Store
	client  *api.Client

	auth          *store.AuthStore
	alerts        *store.AlertStore
	locations     *store.LocationStore
	contacts      *store.ContactStore
	notifications *store.NotificationStore
	admin         *store.AdminStore
}

func newApp() *app {
	cfg := config.Load()

	sess := session.NewStore(cfg.SessionDir)
	if err := sess.Hydrate(); err != nil {
		logrus.WithError(err).Warn("session hydration failed, starting anonymous")
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeoutDuration(), sess)
	client.SetUnauthorizedHook(func() {
		fmt.Printf("⚠️  Session expired, please log in again (%s)\n", store.RouteLogin)
	})

	return &app{
		cfg:           cfg,
		session:       sess,
		client:        client,
		auth:          store.NewAuthStore(client, sess),
		alerts:        store.NewAlertStore(client),
		locations:     store.NewLocationStore(client),
		contacts:      store.NewContactStore(client),
		notifications: store.NewNotificationStore(client),
		admin:         store.NewAdminStore(client),
	}
}

func newRootCmd() *cobra.Command {
	a := newApp()

	root := &cobra.Command{
		Use:           "floodwatch",
		Short:         "FloodWatch flood early-warning client",
		Long:          "Terminal client for the FloodWatch flood early-warning platform:\nalerts, monitored locations, emergency contacts and the SOS button.",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newProfileCmd(a),
		newAlertsCmd(a),
		newAlertCmd(a),
		newLocationsCmd(a),
		newFollowCmd(a),
		newUnfollowCmd(a),
		newContactsCmd(a),
		newNotificationsCmd(a),
		newArticlesCmd(a),
		newWatchCmd(a),
		newSOSCmd(a),
		newRescueCmd(a),
		newAdminCmd(a),
	)
	return root
}

// requireAuth front-loads the authentication check so commands fail with a
// clear message instead of a 401 round trip.
func requireAuth(a *app) error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not logged in, run: floodwatch login")
	}
	return nil
}

func requireAdmin(a *app) error {
	if err := requireAuth(a); err != nil {
		return err
	}
	if !a.session.User().IsAdmin() {
		return fmt.Errorf("admin access required")
	}
	return nil
}
