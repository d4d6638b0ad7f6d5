package tasks_test

import (
	"testing"
	"time"

	pujastore "github.com/dalemusser/pujahub/internal/app/store/pujas"
	"github.com/dalemusser/pujahub/internal/app/system/tasks"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/dalemusser/pujahub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestOrphanScanJob_LogsOrphans(t *testing.T) {
	ds := testutil.NewMemStore(t)
	fx := testutil.NewFixtures(t, ds)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateContribution(ctx, "deleted-puja", "m1", 11)
	fx.CreatePuja(ctx, "Durga Puja", 2025, models.PujaActive, "")

	core, logs := observer.New(zap.InfoLevel)
	job := tasks.OrphanScanJob(pujastore.New(ds), zap.New(core), time.Hour)
	assert.Equal(t, "orphan-scan", job.Name)
	require.NoError(t, job.Run(ctx))

	warned := logs.FilterMessage("orphaned puja collection").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "deleted-puja", warned[0].ContextMap()["puja_id"])
}
