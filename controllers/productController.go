package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/services"
	"github.com/Kariqs/lawlaw-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func findProduct(ctx *gin.Context, preload bool) (models.Product, bool) {
	var product models.Product
	productId, ok := paramID(ctx, "id")
	if !ok {
		return product, false
	}

	query := initializers.DB
	if preload {
		query = query.Preload("Images")
	}
	if err := query.First(&product, productId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
		}
		return product, false
	}
	return product, true
}

func canManageProduct(actor services.Actor, product models.Product) bool {
	return actor.IsAdmin() || product.SellerID == actor.ID
}

func bindProductInput(ctx *gin.Context) (models.ProductInput, bool) {
	var input models.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return input, false
	}
	if !input.Price.IsPositive() {
		respondWithError(ctx, http.StatusBadRequest, "Price must be greater than zero", nil)
		return input, false
	}
	return input, true
}

func CreateProduct(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	input, ok := bindProductInput(ctx)
	if !ok {
		return
	}

	product := models.Product{
		SellerID:    actor.ID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
	}
	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

func GetProducts(ctx *gin.Context) {
	page, limit := pageParams(ctx, 12)
	query := initializers.DB.Model(&models.Product{})

	if search := ctx.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if sellerId, err := strconv.ParseUint(ctx.Query("sellerId"), 10, 64); err == nil {
		query = query.Where("seller_id = ?", sellerId)
	}

	respondWithProductPage(ctx, query, page, limit)
}

func respondWithProductPage(ctx *gin.Context, query *gorm.DB, page, limit int) {
	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
		return
	}

	var products []models.Product
	result := query.Preload("Images").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"products": products,
		"metadata": paginationMetadata(count, page, limit),
	})
}

func GetProduct(ctx *gin.Context) {
	product, ok := findProduct(ctx, true)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func UpdateProduct(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	product, ok := findProduct(ctx, false)
	if !ok {
		return
	}
	if !canManageProduct(actor, product) {
		respondWithError(ctx, http.StatusForbidden, "You can only edit your own products", nil)
		return
	}
	input, ok := bindProductInput(ctx)
	if !ok {
		return
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	product.Price = input.Price
	product.Stock = input.Stock
	if err := initializers.DB.Save(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

func DeleteProduct(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	product, ok := findProduct(ctx, false)
	if !ok {
		return
	}
	if !canManageProduct(actor, product) {
		respondWithError(ctx, http.StatusForbidden, "You can only delete your own products", nil)
		return
	}

	if err := initializers.DB.Delete(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete product", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func UploadProductImages(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	product, ok := findProduct(ctx, false)
	if !ok {
		return
	}
	if !canManageProduct(actor, product) {
		respondWithError(ctx, http.StatusForbidden, "You can only add images to your own products", nil)
		return
	}
	if initializers.Storage == nil {
		respondWithError(ctx, http.StatusServiceUnavailable, "Image storage is not configured", nil)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	var uploadedUrls []string
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			zap.L().Warn("error opening upload", zap.String("file", file.Filename), zap.Error(openErr))
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		key := utils.ObjectKey("products", product.ID, file.Filename)
		url, uploadErr := initializers.Storage.Upload(ctx.Request.Context(), key, f, file.Header.Get("Content-Type"))
		f.Close()

		if uploadErr != nil {
			zap.L().Warn("error uploading file", zap.String("file", file.Filename), zap.Error(uploadErr))
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		productImage := models.ProductImage{Url: url, ProductID: product.ID}
		if err := initializers.DB.Create(&productImage).Error; err != nil {
			// The object is already stored; the url is still returned to the caller.
			zap.L().Error("error saving image to database", zap.Uint("productId", product.ID), zap.Error(err))
		}
		uploadedUrls = append(uploadedUrls, url)
	}

	response := gin.H{
		"message": "Files processed",
		"urls":    uploadedUrls,
	}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}

	ctx.JSON(http.StatusOK, response)
}
