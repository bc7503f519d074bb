package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"h3dstudio/internal/config"
	"h3dstudio/internal/models"
	"h3dstudio/internal/tests/mocks"
)

const (
	opEnqueue = iota
	opTick
	opFinishOldest
	opFailOldest
	opRejectNextSubmit
)

func TestProperty_ProcessingNeverExceedsCap(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)

	properties.Property("the admission counter stays within the cap and matches the tracked jobs", prop.ForAll(
		func(ops []int) bool {
			ctx := context.Background()
			statuses := map[string]models.GenerationStatus{}
			reject := false
			submitted := 0
			client := &mocks.RemoteClientMock{
				SubmitFunc: func(context.Context, models.GenerationRequest) (string, error) {
					if reject {
						reject = false
						return "", errors.New("rejected")
					}
					submitted++
					return fmt.Sprintf("c-%d", submitted), nil
				},
				FetchStatusFunc: func(_ context.Context, id string) (*models.CreationDetails, error) {
					status, ok := statuses[id]
					if !ok {
						status = models.StatusProcessing
					}
					return statusSnapshot(id, status), nil
				},
			}
			o, _ := newTestOrchestrator(client, &mocks.GenerationJobRepositoryMock{}, config.AdmissionInFlight)

			for _, op := range ops {
				switch op {
				case opEnqueue:
					o.Enqueue(request("p"))
					continue
				case opFinishOldest, opFailOldest:
					if running := o.Running(); len(running) > 0 {
						statuses[running[0]] = models.StatusSuccess
						if op == opFailOldest {
							statuses[running[0]] = models.StatusFail
						}
					}
				case opRejectNextSubmit:
					reject = true
				}

				o.Tick(ctx)
				if o.ProcessingCount() > 3 || o.ProcessingCount() < 0 {
					return false
				}
				if o.ProcessingCount() != len(o.Running()) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(40, gen.IntRange(opEnqueue, opRejectNextSubmit)),
	))

	properties.TestingRun(t)
}
