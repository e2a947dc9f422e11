package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("SEABOARD_TEST_MODE") == "" {
			_ = os.Setenv("SEABOARD_TEST_MODE", "1")
		}
	})
}
