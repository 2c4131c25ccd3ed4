package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateOrderNumber produces a human-readable order number of the form
// <PREFIX>-YYYYMMDD-#####, e.g. QH-20250110-00123. The date component is
// UTC so numbers generated around midnight sort consistently.
//
// Five random digits give only 100k numbers per day, so uniqueness is
// NOT guaranteed here. The checkout orchestrator checks the store and
// regenerates on collision, including on a unique violation at commit.
func GenerateOrderNumber(prefix string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("%s-%s-%05d", prefix, now.Format("20060102"), rand.IntN(100000))
}
