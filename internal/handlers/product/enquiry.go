package product

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"bizbazaar_back_end/internal/models"
	"bizbazaar_back_end/internal/services"
	"bizbazaar_back_end/internal/utils"
)

type enquiryInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	Quantity int    `json:"quantity"`
}

// SendProductEnquiry transmet une demande d'acheteur au vendeur par e-mail.
// Même règle de visibilité que les lectures acheteur : produit actif uniquement.
func SendProductEnquiry(c *gin.Context) {
	ctx := c.Request.Context()

	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	var in enquiryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Message = strings.TrimSpace(in.Message)
	if in.Name == "" || in.Message == "" || !strings.Contains(in.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name, a valid email and a message are required"})
		return
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}

	p, err := getProductByID(ctx, gocql.UUID(pid))
	if err != nil || !p.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	company, err := services.GetCompanyByID(ctx, p.CompanyID)
	if err != nil || company.Email == "" {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	// Envoi en arrière-plan, la requête n'attend pas le SMTP
	go func(p models.Product, company models.Company, in enquiryInput) {
		subject := fmt.Sprintf("New enquiry for %s", p.Name)
		if err := utils.SendEmail(company.Email, subject, enquiryHTML(p, company, in)); err != nil {
			log.Printf("❌ Erreur envoi enquiry à %s: %v", company.Email, err)
		} else {
			log.Printf("✅ Enquiry envoyée à %s pour le produit %s", company.Email, p.Name)
		}
	}(p, company, in)

	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "Enquiry sent to seller"})
}

func enquiryHTML(p models.Product, company models.Company, in enquiryInput) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>New product enquiry</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">New enquiry for %s</h2>
		<p>Hello <b>%s</b>,</p>
		<p>A buyer is interested in your listing <strong>%s</strong> (quantity: %d).</p>

		<div style="background-color: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 5px 0;"><strong>From:</strong> %s &lt;%s&gt;</p>
			<p style="margin: 5px 0;"><strong>Message:</strong></p>
			<p style="margin: 5px 0;">%s</p>
		</div>

		<p style="margin-top: 30px; color: #555;">
			Regards,<br>
			<strong>The BizBazaar team</strong>
		</p>
	</div>
</body>
</html>`, p.Name, company.CompanyName, p.Name, in.Quantity, in.Name, in.Email, in.Message)
}
