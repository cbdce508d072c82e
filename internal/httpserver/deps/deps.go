package deps

import (
	"time"

	"github.com/MrSnakeDoc/layerlint/internal/checker"
	"github.com/MrSnakeDoc/layerlint/internal/logger"
)

type Deps struct {
	Logger    logger.Logger
	Runner    *checker.Runner // validation pipeline shared by all requests
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}
