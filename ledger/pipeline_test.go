package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStage struct {
	name   string
	ran    *[]string
	early  bool
	failed error
}

func (s recordingStage) Name() string {
	return s.name
}

func (s recordingStage) Run(f *flow) (Result, error) {
	*s.ran = append(*s.ran, s.name)

	if s.failed != nil {
		return Result{}, s.failed
	}

	if s.early {
		return f.earlyReturn(s.name + " stopped"), nil
	}

	return continueResult(), nil
}

func TestRunPipeline(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken")

	tests := []struct {
		name     string
		early    int
		failed   int
		ran      []string
		kind     ResultKind
		hasError bool
	}{
		{"all continue", -1, -1, []string{"a", "b", "c"}, Continue, false},
		{"early return", 1, -1, []string{"a", "b"}, EarlyReturn, false},
		{"stage error", -1, 0, []string{"a"}, Continue, true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := newTestLedger(t)

			var ran []string

			stages := make([]Stage, 0, 3)

			for i, name := range []string{"a", "b", "c"} {
				stage := recordingStage{name: name, ran: &ran, early: i == tt.early}
				if i == tt.failed {
					stage.failed = errBroken
				}

				stages = append(stages, stage)
			}

			f := newFlow(l.Engine, l.payTx(t, l.alice, l.bob.Address(), 1))

			res, err := l.runPipeline(stages, f)
			assert.Equal(t, tt.ran, ran)

			if tt.hasError {
				assert.ErrorIs(t, err, errBroken)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.kind, res.Kind)

			if tt.kind == EarlyReturn {
				assert.Equal(t, []string{"b stopped"}, res.Response.Errors)
				assert.Equal(t, f.digest, res.Response.Digest)
				assert.Nil(t, res.Response.Effects)
			}
		})
	}
}

func TestStageNames(t *testing.T) {
	t.Parallel()

	names := func(stages []Stage) []string {
		out := make([]string, 0, len(stages))
		for _, s := range stages {
			out = append(out, s.Name())
		}

		return out
	}

	assert.Equal(t, []string{"validation", "execution", "effects", "storage"}, names(executionStages()))
	assert.Equal(t, []string{"validation", "execution", "dry_run"}, names(dryRunStages()))
}
