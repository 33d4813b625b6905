package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api")
	api.Use(s.middleware.RateLimit.Handler())
	api.Use(s.middleware.CartCookie.ResolveCart())

	carts := api.Group("/cart")
	carts.GET("", s.getCart)
	carts.POST("", s.addItem)
	carts.PUT("", s.replaceCart)
	carts.PATCH("", s.updateQty)
	carts.DELETE("", s.removeItem)
}
