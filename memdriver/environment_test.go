package memdriver

import (
	"fmt"
	"os"
	"time"
)

func Environment(f func(dir string)) {
	dir := fmt.Sprintf("temp-%v", time.Now().UnixNano())
	defer os.RemoveAll(dir)

	f(dir)
}
