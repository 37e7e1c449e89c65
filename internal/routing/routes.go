package routing

// Supported locales. Spanish is served without a path prefix.
const (
	LocaleES Locale = "es"
	LocaleEN Locale = "en"

	DefaultLocale = LocaleES
)

// Locales lists the supported locales in preference order.
var Locales = []Locale{LocaleES, LocaleEN}

// Route keys.
const (
	RouteHome              RouteKey = "home"
	RouteAuthLogin         RouteKey = "auth.login"
	RouteAuthRegister      RouteKey = "auth.register"
	RouteAuthError         RouteKey = "auth.error"
	RouteAuthCallback      RouteKey = "auth.callback"
	RouteAuthAuthorize     RouteKey = "auth.authorize"
	RouteAuthSignOut       RouteKey = "auth.signout"
	RouteDashboard         RouteKey = "dashboard"
	RouteProtectedProfile  RouteKey = "protected.profile"
	RouteProtectedFavorite RouteKey = "protected.favorites"
	RouteAdmin             RouteKey = "admin"
	RouteVehicles          RouteKey = "vehicles.list"
	RouteVehicleDetail     RouteKey = "vehicles.detail"
	RouteFinancing         RouteKey = "financing"
	RoutePricing           RouteKey = "pricing"
)

// Routes is the marketplace pathname table.
var Routes = []Route{
	{Key: RouteHome, Internal: "/"},
	{Key: RouteAuthLogin, Internal: "/auth/login", Paths: map[Locale]string{
		LocaleES: "/auth/ingresar",
	}},
	{Key: RouteAuthRegister, Internal: "/auth/register", Paths: map[Locale]string{
		LocaleES: "/auth/registro",
	}},
	{Key: RouteAuthError, Internal: "/auth/error"},
	{Key: RouteAuthCallback, Internal: "/auth/callback"},
	{Key: RouteAuthAuthorize, Internal: "/auth/authorize"},
	{Key: RouteAuthSignOut, Internal: "/auth/signout", Paths: map[Locale]string{
		LocaleES: "/auth/salir",
	}},
	{Key: RouteDashboard, Internal: "/dashboard"},
	{Key: RouteProtectedProfile, Internal: "/protected/profile", Paths: map[Locale]string{
		LocaleES: "/protegido/perfil",
	}},
	{Key: RouteProtectedFavorite, Internal: "/protected/favorites", Paths: map[Locale]string{
		LocaleES: "/protegido/favoritos",
	}},
	{Key: RouteAdmin, Internal: "/admin"},
	{Key: RouteVehicles, Internal: "/vehicles", Paths: map[Locale]string{
		LocaleES: "/vehiculos",
	}},
	{Key: RouteVehicleDetail, Internal: "/vehicles/[slug]", Paths: map[Locale]string{
		LocaleES: "/vehiculos/[slug]",
	}},
	{Key: RouteFinancing, Internal: "/financing", Paths: map[Locale]string{
		LocaleES: "/financiamiento",
	}},
	{Key: RoutePricing, Internal: "/pricing", Paths: map[Locale]string{
		LocaleES: "/precios",
	}},
}

var defaultRegistry = MustRegistry(Locales, DefaultLocale, Routes)

// Default returns the process-wide registry built from Routes.
func Default() *Registry { return defaultRegistry }
