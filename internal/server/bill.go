package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/smallbiznis/bizbook/internal/billing/domain"
	"github.com/smallbiznis/bizbook/internal/bizcontext"
	businessdomain "github.com/smallbiznis/bizbook/internal/business/domain"
)

func (s *Server) CreateBill(c *gin.Context) {
	var req billingdomain.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	bill, err := s.billingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": bill})
}

func (s *Server) ListBills(c *gin.Context) {
	var req billingdomain.ListBillRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	billNumber, err := parseOptionalInt64(c.Query("bill_number"))
	if err != nil {
		AbortWithError(c, newValidationError("bill_number", "invalid_number", "invalid bill number"))
		return
	}
	req.BillNumber = billNumber

	req.StartDate, req.EndDate, err = parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date filter"))
		return
	}

	resp, err := s.billingSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp.Bills, "page_info": resp.PageInfo})
}

func (s *Server) GetBillByID(c *gin.Context) {
	bill, err := s.billingSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) UpdateBill(c *gin.Context) {
	var req billingdomain.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	bill, err := s.billingSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) DeleteBill(c *gin.Context) {
	if err := s.billingSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) NextBillNumber(c *gin.Context) {
	resp, err := s.billingSvc.PeekNextNumber(c.Request.Context(), strings.TrimSpace(c.Query("type")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillPDF(c *gin.Context) {
	ctx := c.Request.Context()

	bill, err := s.billingSvc.GetByID(ctx, strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	businessID, _ := bizcontext.BusinessIDFromContext(ctx)
	business, err := s.businessRepo.FindByID(ctx, s.db, businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if business == nil {
		// Render with the header fields empty rather than failing the
		// whole document over missing letterhead data.
		business = &businessdomain.Business{ID: businessID}
	}

	doc, err := s.pdfProvider.RenderBill(ctx, business, &bill)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, doc)
}
