package utils

import (
	"log"
	"os"
)

// InitLogger returns the process-wide logger used by middleware and the
// notification sender.
func InitLogger() *log.Logger {
	return log.New(os.Stdout, "[Sirb] ", log.LstdFlags|log.LUTC)
}
