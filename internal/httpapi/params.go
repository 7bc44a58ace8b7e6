package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Manujapabodhana/music-project/internal/apperr"
)

func pathID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid id")
	}
	return id, nil
}

func queryInt(r *http.Request, key, def string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		v = def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func queryBool(r *http.Request, key string) *bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	b := v == "true"
	return &b
}

func queryTime(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		// Accept plain dates too.
		t, err = time.Parse("2006-01-02", v)
		if err != nil {
			return nil, apperr.Validation("invalid "+key,
				apperr.Problem{Field: key, Message: "must be an ISO 8601 date"})
		}
	}
	return &t, nil
}

// pageLimit reads page and limit with the given cap.
func pageLimit(r *http.Request, defLimit, maxLimit int) (int, int) {
	page := queryInt(r, "page", "1")
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", strconv.Itoa(defLimit))
	if limit < 1 {
		limit = defLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func sortParams(r *http.Request) (string, bool) {
	return r.URL.Query().Get("sortBy"), r.URL.Query().Get("sortOrder") == "desc"
}
