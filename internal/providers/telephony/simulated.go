package telephony

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SimulatedDispatcher stands in for the Voice API in development mode: no
// call is placed, a fake call id is returned, and the script URLs are logged
// so answers can be injected through the dev endpoints.
type SimulatedDispatcher struct {
	Logger *logrus.Logger
}

func (d *SimulatedDispatcher) DispatchCall(ctx context.Context, toE164, fromE164, answerURL, eventURL string) (string, error) {
	callID := "dev_call_" + uuid.NewString()[:8]
	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{
			"to":         toE164,
			"from":       fromE164,
			"answer_url": answerURL,
			"call_id":    callID,
		}).Info("simulated call dispatched")
	}
	return callID, nil
}

// SimulatedFetcher returns placeholder audio bytes instead of downloading,
// so record callbacks with fake URLs still flow through storage and STT.
type SimulatedFetcher struct{}

func (f *SimulatedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return []byte("simulated audio for " + url), nil
}
