package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	cashbookdomain "github.com/smallbiznis/bizbook/internal/cashbook/domain"
)

func (s *Server) CreateCashEntry(c *gin.Context) {
	var req cashbookdomain.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entry, err := s.cashbookSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

func (s *Server) ListCashEntries(c *gin.Context) {
	var req cashbookdomain.ListEntryRequest
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

	resp, err := s.cashbookSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Entries,
		"summary":   resp.Summary,
		"page_info": resp.PageInfo,
	})
}

func (s *Server) DeleteCashEntry(c *gin.Context) {
	if err := s.cashbookSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
