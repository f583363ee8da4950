package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gorm.io/gorm"
)

// Server wires the HTTP surface to its collaborators. Store handles are
// injected at startup; nothing here is a hidden global.
type Server struct {
	cfg   *Config
	db    *gorm.DB
	users UserStore
	auth  *AuthService
	log   *slog.Logger
}

func NewServer(cfg *Config, db *gorm.DB, users UserStore, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:   cfg,
		db:    db,
		users: users,
		auth:  NewAuthService(users, []byte(cfg.JWTSecret), log),
		log:   log,
	}
}

func (s *Server) router() *gin.Engine {
	r := gin.Default()
	r.Use(rewriteRedirectLocation())
	r.Use(cors.New(corsConfig(s.cfg)))
	s.setupRoutes(r)
	return r
}

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/ping", pingHandler)
	r.POST("/register", s.registerHandler)
	r.POST("/login", s.loginHandler)
	r.POST("/change-password", s.changePasswordHandler)

	authGroup := r.Group("")
	authGroup.Use(s.requireToken())
	authGroup.POST("/regenerate-token", s.regenerateTokenHandler)
	authGroup.GET("/me", s.meHandler)
	authGroup.PATCH("/me", s.updateMeHandler)
	authGroup.DELETE("/me", s.deleteMeHandler)
	authGroup.POST("/vehicles", s.createVehicleHandler)
	authGroup.GET("/vehicles", s.listVehiclesHandler)
	authGroup.GET("/vehicles/:id", s.getVehicleHandler)
	authGroup.PATCH("/vehicles/:id", s.updateVehicleHandler)
	authGroup.DELETE("/vehicles/:id", s.deleteVehicleHandler)
	authGroup.POST("/transactions", s.createTransactionHandler)
	authGroup.GET("/transactions", s.listTransactionsHandler)
	authGroup.GET("/transactions/:id", s.getTransactionHandler)
	authGroup.PATCH("/transactions/:id", s.updateTransactionHandler)
	authGroup.DELETE("/transactions/:id", s.deleteTransactionHandler)
	authGroup.POST("/receipts", s.uploadReceiptHandler)
	authGroup.GET("/receipts", s.listReceiptsHandler)
	authGroup.GET("/receipts/:id", s.getReceiptHandler)
}

func pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ping": "pong"})
}

func (s *Server) registerHandler(c *gin.Context) {
	var req struct {
		FullName string `json:"full_name" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email,max=50"`
		Password string `json:"password" binding:"required,min=4,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := s.auth.Register(req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		s.log.Error("register failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "success", "user": user})
}

func (s *Server) loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email,max=50"`
		Password string `json:"password" binding:"required,min=4,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User Not Found"})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		default:
			s.log.Error("login failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "success", "token": token})
}

func (s *Server) changePasswordHandler(c *gin.Context) {
	var req struct {
		Email           string `json:"email" binding:"required,email,max=50"`
		CurrentPassword string `json:"current_password" binding:"required,min=4,max=100"`
		NewPassword     string `json:"new_password" binding:"required,min=4,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.auth.ChangePassword(req.Email, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		s.log.Error("change password failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "change password failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "success"})
}

func (s *Server) regenerateTokenHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing user"})
		return
	}
	token, err := s.auth.RegenerateToken(user)
	if err != nil {
		s.log.Error("regenerate token failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to regenerate token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "success", "token": token})
}

func (s *Server) meHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) updateMeHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}
	var req struct {
		FullName *string `json:"full_name" binding:"omitempty,min=3,max=50"`
		Password *string `json:"password" binding:"omitempty,min=4,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := map[string]any{}
	if req.FullName != nil {
		patch["full_name"] = *req.FullName
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
			return
		}
		patch["password_hash"] = hash
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data to update"})
		return
	}
	updated, err := s.users.Update(user.ID, patch)
	if err != nil {
		s.log.Error("update user failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if !updated {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Updated"})
}

func (s *Server) deleteMeHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}
	deleted, err := s.users.Delete(user.ID)
	if err != nil {
		s.log.Error("delete user failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !deleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Deleted"})
}
