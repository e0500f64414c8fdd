package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/verify/registry"
)

const validAnno = "```xml\n<proposition id=\"p1\">Some text.</proposition>\n```"
const invalidAnno = "```xml\n<!-- unterminated comment\n```"
const validArgdown = "```argdown\n<A1>: A gist.\n```"
const invalidArgdown = "```argdown\nnothing recognizable here\n```"

func newTestService() *Service {
	return NewService(registry.Default(), nil)
}

func TestVerifySync_VerifierNotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.VerifySync(context.Background(), VerifyInput{Verifier: "does_not_exist", Inputs: validAnno})
	require.Error(t, err)
	var notFound *verify.VerifierNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestVerifySync_InvalidFilterRole(t *testing.T) {
	svc := newTestService()
	_, err := svc.VerifySync(context.Background(), VerifyInput{
		Verifier: "has_annotations",
		Inputs:   validAnno,
		Config: map[string]any{
			"filters": map[string]any{
				"not_a_role": []any{map[string]any{"key": "x", "value": "y"}},
			},
		},
	})
	require.Error(t, err)
	var invalidFilter *verify.InvalidFilterError
	require.ErrorAs(t, err, &invalidFilter)
	assert.Equal(t, []string{"not_a_role"}, invalidFilter.InvalidRoles)
}

func TestVerifySync_InvalidConfigKey(t *testing.T) {
	svc := newTestService()
	_, err := svc.VerifySync(context.Background(), VerifyInput{
		Verifier: "has_annotations",
		Inputs:   validAnno,
		Config:   map[string]any{"bogus_option": true},
	})
	require.Error(t, err)
	var invalidConfig *verify.InvalidConfigError
	require.ErrorAs(t, err, &invalidConfig)
	assert.Equal(t, []string{"bogus_option"}, invalidConfig.InvalidOptions)
}

func TestVerifySync_HasAnnotations(t *testing.T) {
	svc := newTestService()

	out, err := svc.VerifySync(context.Background(), VerifyInput{Verifier: "has_annotations", Inputs: validAnno})
	require.NoError(t, err)
	assert.True(t, out.Valid)
	require.Len(t, out.Results, 1)
	assert.True(t, out.Results[0].IsValid)

	out, err = svc.VerifySync(context.Background(), VerifyInput{Verifier: "has_annotations", Inputs: invalidAnno})
	require.NoError(t, err)
	assert.False(t, out.Valid)
}

func TestVerifySync_HasArgdown(t *testing.T) {
	svc := newTestService()

	out, err := svc.VerifySync(context.Background(), VerifyInput{Verifier: "has_argdown", Inputs: validArgdown})
	require.NoError(t, err)
	assert.True(t, out.Valid)

	out, err = svc.VerifySync(context.Background(), VerifyInput{Verifier: "has_argdown", Inputs: invalidArgdown})
	require.NoError(t, err)
	assert.False(t, out.Valid)
}

func TestVerifySync_Arganno_FullPipeline(t *testing.T) {
	svc := newTestService()
	out, err := svc.VerifySync(context.Background(), VerifyInput{
		Verifier: "arganno",
		Inputs:   validAnno,
		Source:   "",
	})
	require.NoError(t, err)
	assert.True(t, out.Valid, "results: %+v", out.Results)
	assert.Contains(t, out.ExecutedHandlers, "HasAnnotationsHandler")
	assert.NotEmpty(t, out.Results)
}

func TestVerifySync_RecordsRequestIDAndVerifier(t *testing.T) {
	svc := newTestService()
	out, err := svc.VerifySync(context.Background(), VerifyInput{Verifier: "has_argdown", Inputs: validArgdown})
	require.NoError(t, err)
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, "has_argdown", out.Verifier)
}

func TestVerifyAsync_Lifecycle(t *testing.T) {
	svc := newTestService()
	job := svc.VerifyAsync(VerifyInput{Verifier: "has_argdown", Inputs: validArgdown})
	require.NotEmpty(t, job.ID)

	deadline := time.Now().Add(2 * time.Second)
	var final *Job
	for time.Now().Before(deadline) {
		got, ok := svc.GetJob(job.ID)
		require.True(t, ok)
		if got.Status == JobSucceeded || got.Status == JobFailed {
			final = got
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.NotNil(t, final, "job did not finish within deadline")
	assert.Equal(t, JobSucceeded, final.Status)
	require.NotNil(t, final.Output)
	assert.True(t, final.Output.Valid)
}

func TestVerifyAsync_UnknownJob(t *testing.T) {
	svc := newTestService()
	_, ok := svc.GetJob("does-not-exist")
	assert.False(t, ok)
}

func TestVerifySync_MaxConcurrencyOption(t *testing.T) {
	svc := NewService(registry.Default(), nil, WithMaxConcurrency(1), WithTimeout(5*time.Second))
	out, err := svc.VerifySync(context.Background(), VerifyInput{Verifier: "has_argdown", Inputs: validArgdown})
	require.NoError(t, err)
	assert.True(t, out.Valid)
}
