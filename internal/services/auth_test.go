package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/studio-tracker/internal/pkg/errors"
	"github.com/yungbote/studio-tracker/internal/platform/ctxutil"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

func TestTokenRoundTrip(t *testing.T) {
	as := NewAuthService(logger.Nop(), "s3cret", "studio-idp")
	user := uuid.New()
	tok, err := as.IssueToken(user, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	ctx, err := as.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != user || rd.Token != tok {
		t.Fatalf("unexpected request data %+v", rd)
	}
}

func TestTokenRejections(t *testing.T) {
	as := NewAuthService(logger.Nop(), "s3cret", "studio-idp")
	user := uuid.New()

	expired, _ := as.IssueToken(user, -time.Minute)
	otherIssuer, _ := NewAuthService(logger.Nop(), "s3cret", "someone-else").IssueToken(user, time.Minute)
	otherKey, _ := NewAuthService(logger.Nop(), "other", "studio-idp").IssueToken(user, time.Minute)
	nilSubject, _ := as.IssueToken(uuid.Nil, time.Minute)

	for name, tok := range map[string]string{
		"empty":       "",
		"garbage":     "not-a-jwt",
		"expired":     expired,
		"issuer":      otherIssuer,
		"signature":   otherKey,
		"nil_subject": nilSubject,
	} {
		if _, err := as.SetContextFromToken(context.Background(), tok); !errors.Is(err, pkgerrors.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}
