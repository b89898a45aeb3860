package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/upstream"

	log "github.com/sirupsen/logrus"
)

const attributesPath = "/api/attributes"

// Service reads and writes the user attributes and drives the setup wizard on
// top of them. Failures are returned as errors.
type Service struct {
	upstream *upstream.Client
}

func NewService(upstreamClient *upstream.Client) *Service {
	return &Service{
		upstream: upstreamClient,
	}
}

func (s *Service) GetAttributes(ctx context.Context, sess *session.Session) (_ *Attributes, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profile.attributes.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var attrs Attributes
	if err := s.upstream.ForSession(sess).Get(ctx, attributesPath, nil, &attrs); err != nil {
		return nil, fmt.Errorf("get attributes: %w", err)
	}
	return &attrs, nil
}

func (s *Service) SaveAttributes(ctx context.Context, sess *session.Session, attrs Attributes) (_ *Attributes, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profile.attributes.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	if attrs.SetupCompleted {
		if _, incomplete := NextStep(attrs); incomplete {
			return nil, fmt.Errorf("%w: cannot mark it completed", ErrSetupIncomplete)
		}
	}

	var saved Attributes
	if err := s.upstream.ForSession(sess).Put(ctx, attributesPath, attrs, &saved); err != nil {
		return nil, fmt.Errorf("save attributes: %w", err)
	}
	return &saved, nil
}

// SaveStep stores one wizard step on top of the current attributes.
func (s *Service) SaveStep(ctx context.Context, sess *session.Session, step Step, payload json.RawMessage) (*SetupStatus, error) {
	current, err := s.GetAttributes(ctx, sess)
	if err != nil {
		return nil, err
	}

	updated, err := ApplyStep(*current, step, payload)
	if err != nil {
		return nil, err
	}

	saved, err := s.SaveAttributes(ctx, sess, updated)
	if err != nil {
		return nil, err
	}

	log.Debugf("setup step [%s] saved for [%s]", step, sess.Email)
	status := Status(*saved)
	return &status, nil
}

func (s *Service) SetupStatus(ctx context.Context, sess *session.Session) (*SetupStatus, error) {
	attrs, err := s.GetAttributes(ctx, sess)
	if err != nil {
		return nil, err
	}
	status := Status(*attrs)
	return &status, nil
}

func (s *Service) CompleteSetup(ctx context.Context, sess *session.Session) (*SetupStatus, error) {
	current, err := s.GetAttributes(ctx, sess)
	if err != nil {
		return nil, err
	}
	if current.SetupCompleted {
		status := Status(*current)
		return &status, nil
	}

	completed, err := Complete(*current)
	if err != nil {
		return nil, err
	}

	saved, err := s.SaveAttributes(ctx, sess, completed)
	if err != nil {
		return nil, err
	}

	log.Debugf("setup completed for [%s]", sess.Email)
	status := Status(*saved)
	return &status, nil
}
