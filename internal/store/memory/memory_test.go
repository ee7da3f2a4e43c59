package memory

import (
	"testing"

	"github.com/MrSnakeDoc/startpage/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, New())
}
