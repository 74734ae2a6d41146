package rest

import (
	"net/http"

	"github.com/abgdnv/storefront/internal/theme"
	"github.com/abgdnv/storefront/pkg/web"
)

type ThemeView struct {
	DarkMode bool `json:"dark_mode"`
}

func newThemeView(s theme.State) ThemeView {
	return ThemeView{DarkMode: s.DarkMode}
}

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, newThemeView(h.theme.Snapshot()))
}

// ToggleTheme flips dark mode and returns the new theme.
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	darkMode := h.theme.Toggle()
	mLogger.InfoContext(r.Context(), "Theme toggled", "dark_mode", darkMode)
	web.RespondJSON(w, mLogger, http.StatusOK, ThemeView{DarkMode: darkMode})
}
