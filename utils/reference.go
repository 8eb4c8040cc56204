package utils

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var refMu sync.Mutex
var seededRand *rand.Rand

func init() {
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenerateReference builds a unique-enough id for point ledger entries,
// e.g. RWD-483920114523.
func GenerateReference(userID uint) string {
	refMu.Lock()
	defer refMu.Unlock()

	nanoPart := time.Now().UnixNano() % 1000000
	randPart := seededRand.Intn(900) + 100

	return fmt.Sprintf("RWD-%06d%03d%d", nanoPart, randPart, userID)
}
