package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	errx "github.com/ai-for-future/server/internal/core/error"
	"github.com/ai-for-future/server/internal/studio/model"
	logx "github.com/ai-for-future/server/pkg/logger"
)

type chatRequest struct {
	History []model.ConversationTurn `json:"history"`
	Message string                   `json:"message"`
	Mode    string                   `json:"mode"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type imageCreateRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
}

type imageEditRequest struct {
	Image  string `json:"image"` // base64
	MIME   string `json:"mime"`
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	Kind string `json:"kind"`
	MIME string `json:"mime,omitempty"`
	Data string `json:"data,omitempty"` // base64
	Text string `json:"text,omitempty"`
}

type videoRequest struct {
	Prompt string `json:"prompt"`
}

type videoResponse struct {
	URI string `json:"uri"`
}

type deviceCommandRequest struct {
	Command string `json:"command"`
}

type deviceCommandResponse struct {
	Message string         `json:"message"`
	Devices []model.Device `json:"devices"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeError(w, errx.New(nil, http.StatusBadRequest, "message is required"))
		return
	}

	reply := s.chat.Respond(r.Context(), req.History, req.Message, model.ParseReasoningMode(req.Mode))
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleImageCreate(w http.ResponseWriter, r *http.Request) {
	var req imageCreateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Prompt == "" {
		writeError(w, errx.New(nil, http.StatusBadRequest, "prompt is required"))
		return
	}

	payload, err := s.images.Create(r.Context(), req.Prompt, req.AspectRatio)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toImageResponse(payload))
}

func (s *Server) handleImageEdit(w http.ResponseWriter, r *http.Request) {
	var req imageEditRequest
	if !decode(w, r, &req) {
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		writeError(w, errx.New(err, http.StatusBadRequest, "image must be base64 encoded"))
		return
	}
	if len(data) == 0 || req.Prompt == "" {
		writeError(w, errx.New(nil, http.StatusBadRequest, "image and prompt are required"))
		return
	}

	payload, err := s.images.Edit(r.Context(), data, req.MIME, req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toImageResponse(payload))
}

func (s *Server) handleVideoGenerate(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Prompt == "" {
		writeError(w, errx.New(nil, http.StatusBadRequest, "prompt is required"))
		return
	}

	uri, err := s.videos.Generate(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, videoResponse{URI: uri})
}

func (s *Server) handleDeviceList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleDeviceCommand(w http.ResponseWriter, r *http.Request) {
	var req deviceCommandRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Command == "" {
		writeError(w, errx.New(nil, http.StatusBadRequest, "command is required"))
		return
	}

	result, err := s.devices.Interpret(r.Context(), req.Command, s.registry.List())
	if err != nil {
		// An unresolved device still carries a conversational message; keep
		// the message as the body and map the status from the error.
		writeJSON(w, errx.HTTPStatus(err), deviceCommandResponse{
			Message: result.Message,
			Devices: s.registry.List(),
		})
		return
	}

	if result.Diff != nil {
		if err := s.registry.Apply(result.Diff); err != nil {
			writeError(w, errx.New(err, http.StatusConflict, "device update rejected"))
			return
		}
	}
	writeJSON(w, http.StatusOK, deviceCommandResponse{
		Message: result.Message,
		Devices: s.registry.List(),
	})
}

func toImageResponse(p model.ImagePayload) imageResponse {
	resp := imageResponse{Kind: string(p.Kind), Text: p.Text}
	if p.Kind == model.PayloadBinary {
		resp.MIME = p.MIME
		resp.Data = base64.StdEncoding.EncodeToString(p.Data)
	}
	return resp
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, errx.New(err, http.StatusBadRequest, "invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errx.HTTPStatus(err)
	message := errx.SystemErrorMessage

	var appErr *errx.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	} else if status != http.StatusInternalServerError {
		message = err.Error()
	}

	logx.Error().Err(err).Int("status", status).Msg("Request failed")
	writeJSON(w, status, map[string]string{"error": message})
}
