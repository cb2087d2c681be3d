package http1

import "github.com/indigo-web/utils/strcomp"

func equalFold(a, b string) bool {
	return strcomp.EqualFold(a, b)
}
