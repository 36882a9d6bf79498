package version

import "github.com/avl/savefile-go/internal/obs"

// debug is a no-op debug helper. Enable by setting debug = true.
var debug = false

func debugf(format string, args ...any) {
	if debug {
		obs.Logger().Sugar().Debugf(format, args...)
	}
}
