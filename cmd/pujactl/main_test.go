package main

import (
	"testing"

	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierLines(t *testing.T) {
	lines := tierLines("Manager")
	require.Len(t, lines, len(tierpolicy.Names())+1)
	assert.Equal(t, "Manager -> admin", lines[0])
	assert.Contains(t, lines, "  + "+tierpolicy.CanViewReports)
	assert.Contains(t, lines, "  - "+tierpolicy.CanApproveMembers)
}

func TestTierLines_UnknownRoleIsUser(t *testing.T) {
	assert.Equal(t, "Treasurer -> user", tierLines("Treasurer")[0])
}
