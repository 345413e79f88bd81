// Package urlparam разбирает параметры пути chi.
package urlparam

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
)

// Int64 возвращает положительный целочисленный параметр пути name.
func Int64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", name, raw)
	}
	return id, nil
}
