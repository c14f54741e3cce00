package main

// @title Inventory Reservation Service API
// @version 1.0
// @description Stock reservation engine with expiring holds, saga-style order checkout and a movement audit trail
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tair/inventory-reservation
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/tair/inventory-reservation/blob/main/LICENSE

// @host localhost:8082
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Reservations
// @tag.description Reservation lifecycle endpoints

// @tag.name Inventory
// @tag.description Stock level and movement endpoints

// @tag.name Sellers
// @tag.description Seller reporting endpoints

// @tag.name Admin
// @tag.description Administrative endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
