// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentor-pricing-workers/internal/common/camunda"
	"mentor-pricing-workers/internal/common/config"
	"mentor-pricing-workers/internal/common/database"
	"mentor-pricing-workers/internal/common/logger"
	"mentor-pricing-workers/internal/mentor"
	"mentor-pricing-workers/internal/pricing"
	cmm "mentor-pricing-workers/internal/workers/mentor/calculate-mentor-multiplier"
	"mentor-pricing-workers/pkg/registry"
)

const (
	processID    = "mentor-pricing-e2e"
	testMentorID = "e2e-mentor-entry"
)

// Requires a running gateway, Postgres and Redis; enable with E2E=1.
func loadE2EConfig(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() || os.Getenv("E2E") != "1" {
		t.Skip("Skipping E2E tests; set E2E=1 with live services")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func seedMentor(t *testing.T, pg *database.PostgresClient) {
	t.Helper()
	db := pg.GetDB()

	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS mentors (
		id TEXT PRIMARY KEY,
		work_experience TEXT,
		company TEXT,
		company_tier TEXT,
		college TEXT,
		college_tier TEXT,
		job_role TEXT,
		niche_skills TEXT,
		interview_experience TEXT,
		mentor_rating TEXT,
		rating_count TEXT
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO mentors VALUES ($1, '1', 'Acme', 'tier3', 'State U', 'tier3', 'junior', 'none', 'none', '3.0', '5')
		ON CONFLICT (id) DO NOTHING`, testMentorID)
	require.NoError(t, err)
}

func TestMentorPricingE2E(t *testing.T) {
	cfg := loadE2EConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log := logger.NewTestLogger(t)

	pg, err := database.NewPostgres(ctx, cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	defer pg.Close()
	seedMentor(t, pg)

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx), "Redis ping failed")

	zeebe, err := camunda.NewClient(ctx, camunda.ClientConfigFrom(cfg.Camunda))
	require.NoError(t, err, "Zeebe connection failed")
	defer zeebe.Close()

	store := mentor.NewProfileStore(pg.GetDB(), rdb.GetClient(), cfg.Pricing.CacheTTL(), log)
	require.NoError(t, store.Invalidate(ctx, testMentorID))

	reg, err := registry.LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)
	activity, _ := reg.Find(cmm.TaskType)

	handlerCfg, err := cmm.NewConfig(config.GetWorkerConfig(cfg, cmm.TaskType), cfg.Pricing, activity)
	require.NoError(t, err)
	handler := cmm.NewHandler(handlerCfg, store, nil, log)

	jobWorker := camunda.StartWorker(zeebe.GetClient(), cmm.TaskType, config.GetWorkerConfig(cfg, cmm.TaskType), handler, log)
	defer func() {
		jobWorker.Close()
		jobWorker.AwaitClose()
	}()

	_, err = zeebe.GetClient().NewDeployResourceCommand().AddResourceFile("testdata/mentor-pricing.bpmn").Send(ctx)
	require.NoError(t, err, "BPMN deployment failed")

	t.Run("by mentor id", func(t *testing.T) {
		out := runInstance(ctx, t, zeebe.GetClient(), map[string]interface{}{"mentorId": testMentorID})

		assert.Equal(t, "1.25", out["totalWeightedScore"])
		assert.EqualValues(t, 594, out["finalPrice"])
		assert.Equal(t, cmm.ModePermissive, out["pricingMode"])

		exists, err := rdb.GetClient().Exists(ctx, mentor.CacheKey(testMentorID)).Result()
		require.NoError(t, err)
		assert.EqualValues(t, 1, exists, "profile should be cached after the lookup")
	})

	t.Run("inline attributes", func(t *testing.T) {
		attrs := pricing.Attributes{CurrentRole: "senior", CompanyTier: "tier1", WorkExperience: 15}
		out := runInstance(ctx, t, zeebe.GetClient(), map[string]interface{}{"attributes": attrs})

		expected := pricing.Calculate(attrs)
		assert.Equal(t, expected.TotalWeightedScore, out["totalWeightedScore"])
		assert.EqualValues(t, expected.FinalPrice, out["finalPrice"])
	})

	t.Run("unknown mentor is routed as an error", func(t *testing.T) {
		out := runInstance(ctx, t, zeebe.GetClient(), map[string]interface{}{"mentorId": "e2e-mentor-missing"})
		assert.NotContains(t, out, "finalPrice")
	})
}

func runInstance(ctx context.Context, t *testing.T, client zbc.Client, vars map[string]interface{}) map[string]interface{} {
	t.Helper()

	cmd, err := client.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromObject(vars)
	require.NoError(t, err)

	resp, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err, "process instance did not complete")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.GetVariables()), &out))
	return out
}
