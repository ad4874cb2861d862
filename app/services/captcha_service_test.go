package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeStore(t *testing.T) {
	t.Run("TakeConsumesEntry", func(t *testing.T) {
		store := newChallengeStore(time.Minute)
		store.put("ch-1", 42)

		angle, ok := store.take("ch-1")
		require.True(t, ok)
		assert.Equal(t, 42, angle)

		_, ok = store.take("ch-1")
		assert.False(t, ok)
	})

	t.Run("UnknownID", func(t *testing.T) {
		store := newChallengeStore(time.Minute)
		_, ok := store.take("never-issued")
		assert.False(t, ok)
	})

	t.Run("ExpiredEntry", func(t *testing.T) {
		store := newChallengeStore(-time.Second)
		store.put("ch-2", 42)

		_, ok := store.take("ch-2")
		assert.False(t, ok)
	})
}

func TestCaptchaServiceRotate(t *testing.T) {
	svc, err := NewCaptchaServiceRotate(RotateCaptchaOptions{
		TTL:       time.Minute,
		Padding:   15,
		ImgSizePx: 220,
	})
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("GenerateProducesAssets", func(t *testing.T) {
		challenge, err := svc.GenerateRotate(ctx)
		require.NoError(t, err)

		assert.NotEmpty(t, challenge.ID)
		assert.NotEmpty(t, challenge.MasterImageBase64)
		assert.NotEmpty(t, challenge.ThumbImageBase64)
	})

	t.Run("VerifyUnknownChallenge", func(t *testing.T) {
		assert.False(t, svc.VerifyRotate(ctx, "never-issued", 90))
	})

	t.Run("ChallengeIsSingleUse", func(t *testing.T) {
		challenge, err := svc.GenerateRotate(ctx)
		require.NoError(t, err)

		// Whatever the first attempt returns, the challenge is consumed
		_ = svc.VerifyRotate(ctx, challenge.ID, 90)
		assert.False(t, svc.VerifyRotate(ctx, challenge.ID, 90))
	})

	t.Run("ZeroOptionsFallBackToDefaults", func(t *testing.T) {
		svc, err := NewCaptchaServiceRotate(RotateCaptchaOptions{})
		require.NoError(t, err)

		challenge, err := svc.GenerateRotate(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, challenge.ID)
	})
}
