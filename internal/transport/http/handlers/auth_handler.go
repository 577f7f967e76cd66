package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vmitrev/amora/internal/service"
	"github.com/vmitrev/amora/pkg/validator"
)

const maxRegisterBody = 64 << 20 // photos included

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register accepts multipart form data: profile fields plus one or more
// "photos" files. At least one photo is required; photos that fail to
// upload are skipped with a warning rather than failing registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRegisterBody); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form")
		return
	}

	age, _ := strconv.Atoi(r.FormValue("age"))
	input := service.RegisterInput{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Name:     strings.TrimSpace(r.FormValue("name")),
		Age:      age,
		Gender:   strings.TrimSpace(r.FormValue("gender")),
		Country:  strings.TrimSpace(r.FormValue("country")),
		Bio:      strings.TrimSpace(r.FormValue("bio")),
	}
	for _, part := range strings.Split(r.FormValue("interests"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			input.Interests = append(input.Interests, part)
		}
	}

	files := r.MultipartForm.File["photos"]
	if errs := validator.ValidateRegister(input.Email, input.Name, input.Gender, input.Country, input.Bio, input.Password, input.Age, input.Interests, len(files)); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	var photos []service.PhotoUpload
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			continue
		}
		photos = append(photos, service.PhotoUpload{Filename: fh.Filename, Data: data})
	}

	resp, err := h.authService.Register(r.Context(), input, photos)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "EMAIL_TAKEN", "This email is already in use")
		} else {
			log.Error().Err(err).Msg("register failed")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	status := Status{Level: StatusSuccess, Message: "Profile created"}
	if resp.PhotosSkipped > 0 {
		status = Status{Level: StatusWarning, Message: "Profile created, but some photos failed to upload"}
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"profile":      resp.Profile,
		"access_token": resp.AccessToken,
		"status":       status,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateLogin(input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		} else {
			log.Error().Err(err).Msg("login failed")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
