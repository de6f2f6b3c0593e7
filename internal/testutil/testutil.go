package testutil

import (
	"os"
	"strings"
	"time"

	"github.com/datastax/feed-data-apis/log"
	"github.com/gocql/gocql"
	"go.uber.org/zap"
)

// Now is the clock used by tests depending on relative time searches
var Now = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func FixedClock() time.Time {
	return Now
}

func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func TestLogger() log.Logger {
	if strings.ToUpper(os.Getenv("TEST_TRACE")) == "ON" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return log.NewZapLogger(logger)
	}

	return log.NewZapLogger(zap.NewNop())
}

func NewUuid() string {
	uuid, err := gocql.RandomUUID()
	PanicIfError(err)
	return uuid.String()
}
