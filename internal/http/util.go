package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bekind-internal/internal/service"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError 服务错误 → 响应；权限错误返回 403，其余 200 + Fail
func writeError(w http.ResponseWriter, err error) {
	var se *service.Error
	if errors.As(err, &se) && se.Kind == service.KindAuthorization {
		writeJSON(w, http.StatusForbidden, Fail(se.Message))
		return
	}
	writeJSON(w, http.StatusOK, Fail(service.MessageOf(err)))
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// idFromPath 解析 prefix 之后的数字 id，例如 /api/v1/guests/12
func idFromPath(path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	if raw == "" || raw == path || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
