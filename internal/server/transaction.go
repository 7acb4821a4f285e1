package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	transactiondomain "github.com/smallbiznis/bizbook/internal/transaction/domain"
)

func (s *Server) CreateTransaction(c *gin.Context) {
	var req transactiondomain.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entry, err := s.transactionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

func (s *Server) ListTransactions(c *gin.Context) {
	var req transactiondomain.ListEntryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var err error
	req.StartDate, req.EndDate, err = parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date filter"))
		return
	}

	resp, err := s.transactionSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp.Entries, "page_info": resp.PageInfo})
}

func (s *Server) DeleteTransaction(c *gin.Context) {
	if err := s.transactionSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
