// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"dnstool/propagation/internal/config"
	"dnstool/propagation/internal/dnsclient"
	"dnstool/propagation/internal/propagation"

	"github.com/gin-gonic/gin"
)

type PropagationHandler struct {
	Config  *config.Config
	Checker *propagation.Checker
}

func NewPropagationHandler(cfg *config.Config, checker *propagation.Checker) *PropagationHandler {
	return &PropagationHandler{Config: cfg, Checker: checker}
}

// Check serves GET and POST /api/propagation. The report reflects live
// resolver state, so the response is explicitly non-cacheable.
func (h *PropagationHandler) Check(c *gin.Context) {
	domain := strings.TrimSpace(h.param(c, "domain"))
	recordType := h.param(c, "type")
	timeout := h.param(c, "timeoutMs")
	if timeout == "" {
		timeout = strconv.Itoa(h.Config.DefaultTimeoutMs)
	}

	c.Header("Cache-Control", "no-store")

	report, err := h.Checker.Check(c.Request.Context(), domain, recordType, timeout)
	if err != nil {
		if errors.Is(err, dnsclient.ErrInvalidDomain) {
			c.JSON(http.StatusBadRequest, gin.H{
				"ok":    false,
				"error": dnsclient.ErrInvalidDomain.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":    false,
			"error": "An internal error occurred. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// param reads a value from the form body first, then the query string, so
// the POST and GET shapes of the endpoint accept the same names.
func (h *PropagationHandler) param(c *gin.Context, name string) string {
	if v := c.PostForm(name); v != "" {
		return v
	}
	return c.Query(name)
}
