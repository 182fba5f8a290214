package main

import (
	"net/http"

	"github.com/centrifugal/centrifuge"
	"github.com/google/uuid"
)

// anonymous gives every socket a throwaway user id; players are identified
// by their connection, never by an account.
func anonymous(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credentials := &centrifuge.Credentials{UserID: uuid.NewString()}
		r = r.WithContext(centrifuge.SetCredentials(r.Context(), credentials))
		h.ServeHTTP(w, r)
	})
}
