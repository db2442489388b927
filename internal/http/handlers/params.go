package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/http/response"
	"github.com/yungbote/learnpath-backend/internal/platform/ctxutil"
)

// pathUUID parses the named path param, writing a 400 and returning false when it is not a uuid.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, errors.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// callerID returns the authenticated user, writing a 401 when the request carries none.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("unauthorized"))
		return uuid.Nil, false
	}
	return rd.UserID, true
}
