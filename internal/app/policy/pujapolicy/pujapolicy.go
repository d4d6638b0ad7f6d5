// Package pujapolicy holds the puja status rules.
//
// Rules:
//   - pending and active can be set from each other by any tier
//   - completed can be set from pending or active only with canCompletePujas
//   - nothing leaves completed
package pujapolicy

import (
	"errors"

	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/domain/models"
)

var (
	ErrInvalidStatus     = errors.New("unknown puja status")
	ErrInvalidTransition = errors.New("puja status change not allowed")
	ErrForbidden         = errors.New("only the highest tier can complete a puja")
)

// CheckTransition validates moving a puja from one status to another for a
// caller of the given tier. Setting the current status again is allowed
// unless the puja is completed.
func CheckTransition(tier tierpolicy.Tier, from, to string) error {
	if !models.ValidPujaStatus(to) {
		return ErrInvalidStatus
	}
	if from == models.PujaCompleted {
		return ErrInvalidTransition
	}
	if to == models.PujaCompleted && !tierpolicy.HasPermission(tier, tierpolicy.CanCompletePujas) {
		return ErrForbidden
	}
	return nil
}

// Next lists the statuses a caller of tier may move a puja in from to.
func Next(tier tierpolicy.Tier, from string) []string {
	var out []string
	for _, to := range []string{models.PujaPending, models.PujaActive, models.PujaCompleted} {
		if to == from {
			continue
		}
		if CheckTransition(tier, from, to) == nil {
			out = append(out, to)
		}
	}
	return out
}
