// Package notify writes notification documents as side effects of
// complaint mutations. Every write here is best-effort: failures are
// logged and swallowed so they can never fail or roll back the primary
// operation that triggered them.
package notify

import (
	"context"
	"fmt"

	citizenstore "github.com/yash2607-del/samaaj/internal/app/store/citizens"
	moderatorstore "github.com/yash2607-del/samaaj/internal/app/store/moderators"
	notificationstore "github.com/yash2607-del/samaaj/internal/app/store/notifications"
	"github.com/yash2607-del/samaaj/internal/app/system/placematch"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Service struct {
	notifications *notificationstore.Store
	moderators    *moderatorstore.Store
	citizens      *citizenstore.Store
	log           *zap.Logger
}

func New(notifications *notificationstore.Store, moderators *moderatorstore.Store, citizens *citizenstore.Store, logger *zap.Logger) *Service {
	return &Service{
		notifications: notifications,
		moderators:    moderators,
		citizens:      citizens,
		log:           logger,
	}
}

func (s *Service) create(ctx context.Context, n models.Notification) {
	if _, err := s.notifications.Create(ctx, n); err != nil {
		s.log.Warn("notification insert failed",
			zap.String("type", n.Type),
			zap.String("recipient", n.UserID.Hex()),
			zap.Error(err))
	}
}

// ComplaintCreated runs the full creation fan-out: a submission
// confirmation to the owner, an assignment notice to every moderator of
// the complaint's department whose assigned area (if any) covers it, and
// a nearby notice to every citizen in the complaint's district other
// than the owner. deptName may be empty when the complaint has no
// department yet.
func (s *Service) ComplaintCreated(ctx context.Context, c models.Complaint, deptName string) {
	cid := c.ID

	if c.UserID != nil {
		s.create(ctx, models.Notification{
			UserID:      *c.UserID,
			Type:        models.NotificationNewComplaint,
			Title:       "Complaint submitted",
			Message:     fmt.Sprintf("Your complaint %q has been submitted and is pending review.", c.Title),
			ComplaintID: &cid,
		})
	}

	if !c.Department.IsZero() {
		mods, err := s.moderators.FindByDepartment(ctx, c.Department, deptName)
		if err != nil {
			s.log.Warn("moderator fan-out lookup failed", zap.Error(err))
		}
		for _, m := range mods {
			if m.AssignedArea != "" && !placematch.Matches(c.District, c.Location, m.AssignedArea) {
				continue
			}
			s.create(ctx, models.Notification{
				UserID:      m.UserID,
				Type:        models.NotificationAssignment,
				Title:       "New complaint in your department",
				Message:     fmt.Sprintf("A new %s complaint %q was filed in %s.", c.Category, c.Title, place(c)),
				ComplaintID: &cid,
			})
		}
	}

	if c.District != "" {
		residents, err := s.citizens.FindByLocation(ctx, c.District)
		if err != nil {
			s.log.Warn("citizen fan-out lookup failed", zap.Error(err))
		}
		for _, r := range residents {
			if c.UserID != nil && r.UserID == *c.UserID {
				continue
			}
			s.create(ctx, models.Notification{
				UserID:      r.UserID,
				Type:        models.NotificationNewComplaint,
				Title:       "New complaint near you",
				Message:     fmt.Sprintf("A %s complaint %q was reported in %s.", c.Category, c.Title, c.District),
				ComplaintID: &cid,
			})
		}
	}
}

// StatusChanged notifies the complaint owner of an actual status change.
// Callers skip the call when the status did not change.
func (s *Service) StatusChanged(ctx context.Context, c models.Complaint, newStatus string) {
	if c.UserID == nil {
		return
	}
	cid := c.ID
	s.create(ctx, models.Notification{
		UserID:      *c.UserID,
		Type:        models.NotificationStatusChange,
		Title:       "Complaint status updated",
		Message:     statusMessage(c.Title, newStatus),
		ComplaintID: &cid,
		Metadata:    map[string]string{"status": newStatus},
	})
}

// Liked notifies the owner that someone liked their complaint, unless
// the actor is the owner.
func (s *Service) Liked(ctx context.Context, c models.Complaint, actor primitive.ObjectID) {
	if c.UserID == nil || *c.UserID == actor {
		return
	}
	cid := c.ID
	s.create(ctx, models.Notification{
		UserID:      *c.UserID,
		Type:        models.NotificationCommunityValidation,
		Title:       "Your complaint got support",
		Message:     fmt.Sprintf("Someone liked your complaint %q.", c.Title),
		ComplaintID: &cid,
	})
}

// Validated notifies the owner of a first-time community validation.
// Updates to an existing validation stay quiet, as does self-validation.
func (s *Service) Validated(ctx context.Context, c models.Complaint, actor primitive.ObjectID) {
	if c.UserID == nil || *c.UserID == actor {
		return
	}
	cid := c.ID
	s.create(ctx, models.Notification{
		UserID:      *c.UserID,
		Type:        models.NotificationCommunityValidation,
		Title:       "Your complaint was validated",
		Message:     fmt.Sprintf("A community member confirmed your complaint %q.", c.Title),
		ComplaintID: &cid,
	})
}

func statusMessage(title, status string) string {
	switch status {
	case models.StatusInProgress:
		return fmt.Sprintf("Work has started on your complaint %q.", title)
	case models.StatusResolved:
		return fmt.Sprintf("Your complaint %q has been resolved.", title)
	case models.StatusRejected:
		return fmt.Sprintf("Your complaint %q was reviewed and rejected.", title)
	default:
		return fmt.Sprintf("Your complaint %q is pending review.", title)
	}
}

func place(c models.Complaint) string {
	if c.District != "" {
		return c.District
	}
	if c.Location != "" {
		return c.Location
	}
	return "your area"
}
