package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"songvault/internal/models"
	"songvault/internal/repositories"
	"songvault/internal/services"
	"songvault/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ResourceHandler handles HTTP requests for song resources and their audio files.
type ResourceHandler struct {
	currentUser
	songs    *services.SongService
	files    *services.FileService
	jokes    *services.JokeService
	validate *validator.Validate
	log      *zap.Logger
}

// NewResourceHandler creates a new ResourceHandler. jokes may be nil.
func NewResourceHandler(users *services.UserService, songs *services.SongService, files *services.FileService, jokes *services.JokeService, log *zap.Logger) *ResourceHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResourceHandler{
		currentUser: currentUser{users: users},
		songs:       songs,
		files:       files,
		jokes:       jokes,
		validate:    validator.New(),
		log:         log,
	}
}

// RegisterRoutes registers the resource routes with the Fiber app.
func (h *ResourceHandler) RegisterRoutes(router fiber.Router) {
	resourceRoutes := router.Group("/resources")
	resourceRoutes.Get("/", h.HandleGetResources)
	resourceRoutes.Get("/:id", h.HandleGetResourceByID)
	resourceRoutes.Post("/", h.HandleCreateResource)
	resourceRoutes.Put("/:id", h.HandleUpdateResource)
	resourceRoutes.Post("/:id", h.HandleUploadResourceFile)
	resourceRoutes.Delete("/:id", h.HandleDeleteResource)
}

// respond writes the success envelope with a best-effort joke attached.
func (h *ResourceHandler) respond(c *fiber.Ctx, data interface{}) error {
	body := fiber.Map{"message": "success"}
	if data != nil {
		body["data"] = data
	}
	body["joke"] = h.jokes.Random(c.UserContext())
	return c.JSON(body)
}

// requireSong loads the song named by the :id parameter or returns a 404 error.
func (h *ResourceHandler) requireSong(c *fiber.Ctx) (*models.Song, error) {
	id := c.Params("id")
	song, err := h.songs.GetSongByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("resource with id %s not found", id))
		}
		return nil, err
	}
	return song, nil
}

// HandleGetResources lists every song.
func (h *ResourceHandler) HandleGetResources(c *fiber.Ctx) error {
	if _, err := h.CurrentUser(c); err != nil {
		return err
	}

	songs, err := h.songs.GetAllSongs(c.UserContext())
	if err != nil {
		return err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return h.respond(c, songs)
}

// HandleGetResourceByID returns a song with metadata read from its audio file.
func (h *ResourceHandler) HandleGetResourceByID(c *fiber.Ctx) error {
	if _, err := h.CurrentUser(c); err != nil {
		return err
	}
	song, err := h.requireSong(c)
	if err != nil {
		return err
	}

	metadata, err := h.files.Metadata(c.UserContext(), song.ID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.Map{"song": song, "metadata": metadata})
}

// CreateResourceRequest represents the request body for a new song.
type CreateResourceRequest struct {
	Name   string `json:"name" validate:"required"`
	Artist string `json:"artist" validate:"required"`
}

// HandleCreateResource creates a song.
func (h *ResourceHandler) HandleCreateResource(c *fiber.Ctx) error {
	user, err := h.CurrentUser(c)
	if err != nil {
		return err
	}

	var req CreateResourceRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	song, err := h.songs.CreateSong(c.UserContext(), user.ID, req.Name, req.Artist)
	if err != nil {
		return err
	}
	return h.respond(c, song)
}

// UpdateResourceRequest represents a partial song update; absent fields keep their value.
type UpdateResourceRequest struct {
	Name   *string `json:"name"`
	Artist *string `json:"artist"`
}

// HandleUpdateResource changes name and/or artist.
func (h *ResourceHandler) HandleUpdateResource(c *fiber.Ctx) error {
	user, err := h.CurrentUser(c)
	if err != nil {
		return err
	}
	song, err := h.requireSong(c)
	if err != nil {
		return err
	}

	var req UpdateResourceRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	updated, err := h.songs.UpdateSong(c.UserContext(), user.ID, song.ID, req.Name, req.Artist)
	if err != nil {
		return err
	}
	return h.respond(c, updated)
}

// HandleUploadResourceFile stores the song's audio file.
func (h *ResourceHandler) HandleUploadResourceFile(c *fiber.Ctx) error {
	user, err := h.CurrentUser(c)
	if err != nil {
		return err
	}
	song, err := h.requireSong(c)
	if err != nil {
		return err
	}

	var form *multipart.Form
	if f, err := c.MultipartForm(); err == nil {
		form = f
	} else {
		h.log.Debug("No multipart form in upload", zap.String("song_id", song.ID), zap.Error(err))
	}

	if _, err := h.files.Store(c.UserContext(), user.ID, song.ID, form); err != nil {
		return err
	}
	return h.respond(c, nil)
}

// HandleDeleteResource deletes a song record. Its audio file is left in place.
func (h *ResourceHandler) HandleDeleteResource(c *fiber.Ctx) error {
	user, err := h.CurrentUser(c)
	if err != nil {
		return err
	}
	song, err := h.requireSong(c)
	if err != nil {
		return err
	}

	if err := h.songs.DeleteSong(c.UserContext(), user.ID, song.ID); err != nil {
		return err
	}
	return h.respond(c, nil)
}

// HandleServeFile streams a stored audio file by name. It backs /resources/:filename
// when files live in an object store rather than a local directory.
func (h *ResourceHandler) HandleServeFile(c *fiber.Ctx) error {
	name := c.Params("filename")
	f, err := h.files.Open(c.UserContext(), name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}

	size, err := f.Seek(0, io.SeekEnd)
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to size %s: %w", name, err)
	}

	c.Type(filepath.Ext(name))
	return c.SendStream(f, int(size))
}
