package controllers

import (
	"net/http"

	"github.com/JuliusDeane-data/careplan/internal/utils"
)

func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
