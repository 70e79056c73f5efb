package handler

import (
	"net/http"

	"github.com/mbella-dev/bankcore/internal/auth"
	"github.com/mbella-dev/bankcore/internal/service/engine"
)

// actorFor builds the engine actor for a request. Authenticated identity wins;
// otherwise the operation runs as a guest identified by the submitted email.
func actorFor(r *http.Request, fallbackEmail string) engine.Actor {
	if a, ok := auth.ActorFromContext(r.Context()); ok {
		return engine.Actor{UserID: a.UserID, Email: a.Email}
	}
	return engine.Actor{Email: fallbackEmail}
}
