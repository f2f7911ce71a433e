package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"bizbazaar_back_end/internal/database"
	"bizbazaar_back_end/internal/models"
)

// GenerateSignedURL génère une URL signée MinIO avec expiration pour une
// référence image stockée (le chemin complet ou relatif au bucket)
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")
	reqParams := make(url.Values)

	// Nettoie l'URL complète pour ne garder que le chemin relatif au bucket
	prefix := fmt.Sprintf("http://%s/%s/", os.Getenv("MINIO_ENDPOINT"), bucket)
	key := strings.TrimPrefix(objectPath, prefix)

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, reqParams)
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}

// SignProductImages remplace les URLs d'images par des URLs signées 24h.
// Une image qui ne peut pas être signée est simplement omise.
func SignProductImages(ctx context.Context, p *models.Product) {
	if database.MinIO == nil || len(p.Images) == 0 {
		return
	}
	signed := make([]models.ProductImage, 0, len(p.Images))
	for _, img := range p.Images {
		if img.URL == "" {
			continue
		}
		signedURL, err := GenerateSignedURL(ctx, img.URL, 24*time.Hour)
		if err != nil {
			continue
		}
		signed = append(signed, models.ProductImage{URL: signedURL, ID: img.ID})
	}
	p.Images = signed
}
