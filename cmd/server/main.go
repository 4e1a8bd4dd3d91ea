package main

import (
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/docelab/docepreco/internal/config"
	"github.com/docelab/docepreco/internal/copywriter"
	"github.com/docelab/docepreco/internal/db"
	"github.com/docelab/docepreco/internal/migrations"
	"github.com/docelab/docepreco/internal/money"
	"github.com/docelab/docepreco/internal/pricing"
	"github.com/docelab/docepreco/internal/seed"
	"github.com/docelab/docepreco/internal/store"
)

type server struct {
	auth        *authService
	db          *sql.DB
	ingredients *store.IngredientStore
	profile     *store.ProfileStore
	recipes     *store.RecipeStore
	writer      *copywriter.Client
	locale      string
	currency    string
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type loginViewData struct {
	baseViewData
}

type profileViewData struct {
	baseViewData
	Profile    pricing.Profile
	HourlyRate float64
}

type ingredientsViewData struct {
	baseViewData
	Ingredients []pricing.Ingredient
}

// lineRow is one recipe line resolved against the pantry for display.
// Dangling lines (ingredient deleted after being added to the recipe) are
// shown inert and priced at zero.
type lineRow struct {
	IngredientID  int64
	Name          string
	PackageWeight float64
	Quantity      float64
	Cost          float64
	Dangling      bool
}

type calculatorViewData struct {
	baseViewData
	Recipe     pricing.Recipe
	Rows       []lineRow
	Pantry     []pricing.Ingredient
	HourlyRate float64
	Result     pricing.Result
}

type savedRecipeRow struct {
	ID               int64
	SavedAt          string
	Name             string
	HourlyRateAtSave float64
	PricePerUnit     float64
}

type recipesViewData struct {
	baseViewData
	Recipes []savedRecipeRow
}

type marketingViewData struct {
	baseViewData
	Recipes    []store.SavedRecipe
	RecipeName string
	Copy       string
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}

	stats, err := seed.Run(database)
	if err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}
	if stats.Inserts > 0 {
		log.Printf("seeded %d rows", stats.Inserts)
	}

	srv := &server{
		auth:        newAuthService(cfg.AppPassword, cfg.SessionSecret),
		db:          database,
		ingredients: store.NewIngredientStore(database),
		profile:     store.NewProfileStore(database),
		recipes:     store.NewRecipeStore(database),
		writer:      copywriter.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel),
		locale:      cfg.Locale,
		currency:    cfg.Currency,
	}

	r := chi.NewRouter()
	r.Use(srv.authMiddleware)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.Get("/", srv.handleHome)
	r.Get("/login", srv.handleLoginForm)
	r.Post("/login", srv.handleLoginSubmit)
	r.Post("/logout", srv.handleLogout)
	r.Get("/config", srv.handleProfileForm)
	r.Post("/config", srv.handleProfileSubmit)
	r.Get("/ingredients", srv.handleIngredientsForm)
	r.Post("/ingredients", srv.handleIngredientsCreate)
	r.Post("/ingredients/{id}/delete", srv.handleIngredientsDelete)
	r.Get("/calculator", srv.handleCalculatorForm)
	r.Post("/calculator", srv.handleCalculatorSubmit)
	r.Get("/recipes", srv.handleRecipesList)
	r.Post("/recipes/{id}/load", srv.handleRecipeLoad)
	r.Post("/recipes/{id}/delete", srv.handleRecipeDelete)
	r.Get("/marketing", srv.handleMarketingForm)
	r.Post("/marketing/{id}", srv.handleMarketingGenerate)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/calculator", http.StatusSeeOther)
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r, s.auth) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if !s.auth.validatePassword(r.FormValue("password")) {
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Senha incorreta. Tente de novo."}})
		return
	}

	s.auth.setSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *server) handleProfileForm(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profile.Get()
	if err != nil {
		http.Error(w, "failed to load business profile", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "config.html", profileViewData{
		Profile:    profile,
		HourlyRate: pricing.HourlyRate(profile),
	})
}

func (s *server) handleProfileSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	profile, validationErr := parseProfileForm(r)
	if validationErr != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "config.html", profileViewData{
			baseViewData: baseViewData{ErrorMessage: validationErr.Error()},
			Profile:      profile,
			HourlyRate:   pricing.HourlyRate(profile),
		})
		return
	}

	if err := s.profile.Update(profile); err != nil {
		http.Error(w, "failed to save business profile", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "config.html", profileViewData{
		baseViewData: baseViewData{SuccessMessage: "Configurações salvas com sucesso."},
		Profile:      profile,
		HourlyRate:   pricing.HourlyRate(profile),
	})
}

func (s *server) handleIngredientsForm(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.ingredients.List()
	if err != nil {
		http.Error(w, "failed to load ingredients", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "ingredients.html", ingredientsViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Ingredients: ingredients,
	})
}

func (s *server) handleIngredientsCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Redirect(w, r, "/ingredients?error=nome+%C3%A9+obrigat%C3%B3rio", http.StatusSeeOther)
		return
	}

	packageWeight, err := parsePositiveFloat(r.FormValue("package_weight"), "peso da embalagem")
	if err != nil {
		http.Redirect(w, r, "/ingredients?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	cost, err := parseNonNegativeFloat(r.FormValue("cost"), "preço")
	if err != nil {
		http.Redirect(w, r, "/ingredients?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	if _, err := s.ingredients.Add(name, packageWeight, cost); err != nil {
		http.Error(w, "failed to create ingredient", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/ingredients?success=Ingrediente+adicionado+%C3%A0+despensa", http.StatusSeeOther)
}

func (s *server) handleIngredientsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid ingredient id", http.StatusBadRequest)
		return
	}

	if err := s.ingredients.Remove(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Redirect(w, r, "/ingredients?error=Ingrediente+n%C3%A3o+encontrado", http.StatusSeeOther)
			return
		}
		http.Error(w, "failed to delete ingredient", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/ingredients?success=Ingrediente+removido", http.StatusSeeOther)
}

func (s *server) handleCalculatorForm(w http.ResponseWriter, r *http.Request) {
	s.renderCalculator(w, defaultRecipe(), baseViewData{})
}

func (s *server) handleCalculatorSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	recipe := parseRecipeForm(r)

	// Only the clicked button's name/value pair is submitted.
	switch {
	case r.FormValue("action") == "save":
		s.saveRecipe(w, r, recipe)
		return
	case r.FormValue("action") == "add":
		if id, err := strconv.ParseInt(r.FormValue("add_ingredient_id"), 10, 64); err == nil && id > 0 {
			recipe.AddLine(id)
		}
	case r.FormValue("remove_ingredient_id") != "":
		if id, err := strconv.ParseInt(r.FormValue("remove_ingredient_id"), 10, 64); err == nil {
			recipe.RemoveLine(id)
		}
	}

	s.renderCalculator(w, recipe, baseViewData{})
}

func (s *server) saveRecipe(w http.ResponseWriter, r *http.Request, recipe pricing.Recipe) {
	profile, err := s.profile.Get()
	if err != nil {
		http.Error(w, "failed to load business profile", http.StatusInternalServerError)
		return
	}

	if _, err := s.recipes.Save(recipe, pricing.HourlyRate(profile)); err != nil {
		if errors.Is(err, store.ErrNameRequired) {
			s.renderCalculator(w, recipe, baseViewData{ErrorMessage: "Dê um nome à receita antes de salvar."})
			return
		}
		http.Error(w, "failed to save recipe", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/recipes?success=Receita+salva", http.StatusSeeOther)
}

func (s *server) renderCalculator(w http.ResponseWriter, recipe pricing.Recipe, base baseViewData) {
	pantry, err := s.ingredients.List()
	if err != nil {
		http.Error(w, "failed to load ingredients", http.StatusInternalServerError)
		return
	}
	profile, err := s.profile.Get()
	if err != nil {
		http.Error(w, "failed to load business profile", http.StatusInternalServerError)
		return
	}

	catalog := make(map[int64]pricing.Ingredient, len(pantry))
	for _, ing := range pantry {
		catalog[ing.ID] = ing
	}

	hourlyRate := pricing.HourlyRate(profile)
	result := pricing.Price(recipe, catalog, hourlyRate)

	rows := make([]lineRow, 0, len(recipe.Lines))
	for _, line := range recipe.Lines {
		row := lineRow{IngredientID: line.IngredientID, Quantity: line.Quantity}
		if ing, ok := catalog[line.IngredientID]; ok {
			row.Name = ing.Name
			row.PackageWeight = ing.PackageWeight
			row.Cost = ing.UnitCost() * line.Quantity
		} else {
			row.Name = "(ingrediente removido)"
			row.Dangling = true
		}
		rows = append(rows, row)
	}

	s.renderTemplate(w, "calculator.html", calculatorViewData{
		baseViewData: base,
		Recipe:       recipe,
		Rows:         rows,
		Pantry:       pantry,
		HourlyRate:   hourlyRate,
		Result:       result,
	})
}

func (s *server) handleRecipesList(w http.ResponseWriter, r *http.Request) {
	saved, err := s.recipes.List()
	if err != nil {
		http.Error(w, "failed to load recipes", http.StatusInternalServerError)
		return
	}

	catalog, err := s.ingredients.Catalog()
	if err != nil {
		http.Error(w, "failed to load ingredients", http.StatusInternalServerError)
		return
	}

	rows := make([]savedRecipeRow, 0, len(saved))
	for _, sr := range saved {
		result := pricing.Price(sr.Recipe, catalog, sr.HourlyRateAtSave)
		rows = append(rows, savedRecipeRow{
			ID:               sr.ID,
			SavedAt:          sr.SavedAt,
			Name:             sr.Recipe.Name,
			HourlyRateAtSave: sr.HourlyRateAtSave,
			PricePerUnit:     result.PricePerUnit,
		})
	}

	s.renderTemplate(w, "recipes.html", recipesViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Recipes: rows,
	})
}

func (s *server) handleRecipeLoad(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid recipe id", http.StatusBadRequest)
		return
	}

	recipe, err := s.recipes.Load(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Redirect(w, r, "/recipes?error=Receita+n%C3%A3o+encontrada", http.StatusSeeOther)
			return
		}
		http.Error(w, "failed to load recipe", http.StatusInternalServerError)
		return
	}

	s.renderCalculator(w, recipe, baseViewData{SuccessMessage: "Receita carregada na calculadora."})
}

func (s *server) handleRecipeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid recipe id", http.StatusBadRequest)
		return
	}

	if err := s.recipes.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Redirect(w, r, "/recipes?error=Receita+n%C3%A3o+encontrada", http.StatusSeeOther)
			return
		}
		http.Error(w, "failed to delete recipe", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/recipes?success=Receita+exclu%C3%ADda", http.StatusSeeOther)
}

func (s *server) handleMarketingForm(w http.ResponseWriter, r *http.Request) {
	saved, err := s.recipes.List()
	if err != nil {
		http.Error(w, "failed to load recipes", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "marketing.html", marketingViewData{Recipes: saved})
}

func (s *server) handleMarketingGenerate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid recipe id", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	saved, err := s.recipes.List()
	if err != nil {
		http.Error(w, "failed to load recipes", http.StatusInternalServerError)
		return
	}

	snapshot, err := s.recipes.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Redirect(w, r, "/marketing", http.StatusSeeOther)
			return
		}
		http.Error(w, "failed to load recipe", http.StatusInternalServerError)
		return
	}

	if !s.writer.Enabled() {
		s.renderTemplate(w, "marketing.html", marketingViewData{
			baseViewData: baseViewData{ErrorMessage: "Configure GEMINI_API_KEY para usar a assistente de marketing."},
			Recipes:      saved,
			RecipeName:   snapshot.Recipe.Name,
		})
		return
	}

	catalog, err := s.ingredients.Catalog()
	if err != nil {
		http.Error(w, "failed to load ingredients", http.StatusInternalServerError)
		return
	}

	names := make([]string, 0, len(snapshot.Recipe.Lines))
	for _, line := range snapshot.Recipe.Lines {
		if ing, ok := catalog[line.IngredientID]; ok {
			names = append(names, ing.Name)
		}
	}

	result := pricing.Price(snapshot.Recipe, catalog, snapshot.HourlyRateAtSave)

	text, err := s.writer.Generate(r.Context(), copywriter.Request{
		Kind:            copywriter.Kind(r.FormValue("kind")),
		RecipeName:      snapshot.Recipe.Name,
		IngredientNames: names,
		FormattedPrice:  s.formatMoney(result.PricePerUnit),
	})
	if err != nil {
		log.Printf("marketing copy generation failed: %v", err)
		s.renderTemplate(w, "marketing.html", marketingViewData{
			baseViewData: baseViewData{ErrorMessage: "Ops! A confeiteira virtual está ocupada. Tente de novo em alguns segundos! 🧁"},
			Recipes:      saved,
			RecipeName:   snapshot.Recipe.Name,
		})
		return
	}

	s.renderTemplate(w, "marketing.html", marketingViewData{
		Recipes:    saved,
		RecipeName: snapshot.Recipe.Name,
		Copy:       text,
	})
}

// defaultRecipe pre-fills the calculator with the starter brigadeiro from the
// seed pantry.
func defaultRecipe() pricing.Recipe {
	return pricing.Recipe{
		Name:                "Brigadeiro Gourmet",
		Yields:              20,
		TimeSpentMinutes:    60,
		ProfitMarginPercent: 30,
		Lines: []pricing.Line{
			{IngredientID: 1, Quantity: 395},
			{IngredientID: 2, Quantity: 100},
			{IngredientID: 3, Quantity: 40},
			{IngredientID: 4, Quantity: 20},
		},
	}
}

// parseRecipeForm rebuilds the working recipe from the calculator form. The
// calculator must always be able to price whatever is on screen, so numeric
// fields that fail to parse become 0 instead of validation errors.
func parseRecipeForm(r *http.Request) pricing.Recipe {
	recipe := pricing.Recipe{
		Name:                strings.TrimSpace(r.FormValue("name")),
		Yields:              parseFloatOrZero(r.FormValue("yields")),
		TimeSpentMinutes:    parseFloatOrZero(r.FormValue("time_spent_minutes")),
		ProfitMarginPercent: parseFloatOrZero(r.FormValue("profit_margin_percent")),
	}

	ids := r.Form["ingredient_id"]
	quantities := r.Form["quantity"]
	for i, rawID := range ids {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			continue
		}
		recipe.AddLine(id)
		if i < len(quantities) {
			recipe.SetQuantity(id, parseFloatOrZero(quantities[i]))
		}
	}

	return recipe
}

func parseFloatOrZero(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func parseProfileForm(r *http.Request) (pricing.Profile, error) {
	profile := pricing.Profile{}

	var err error
	if profile.MonthlySalary, err = parseNonNegativeFloat(r.FormValue("monthly_salary"), "salário mensal"); err != nil {
		return profile, err
	}
	if profile.MonthlyFixedCosts, err = parseNonNegativeFloat(r.FormValue("monthly_fixed_costs"), "custos fixos"); err != nil {
		return profile, err
	}
	if profile.HoursPerDay, err = parsePositiveFloat(r.FormValue("hours_per_day"), "horas por dia"); err != nil {
		return profile, err
	}
	if profile.DaysPerWeek, err = parseNonNegativeFloat(r.FormValue("days_per_week"), "dias por semana"); err != nil {
		return profile, err
	}
	if profile.DaysPerWeek > 7 {
		return profile, fmt.Errorf("dias por semana deve estar entre 0 e 7")
	}

	return profile, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s deve ser numérico", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s deve ser maior ou igual a 0", field)
	}
	return value, nil
}

func parsePositiveFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s deve ser numérico", field)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s deve ser maior que 0", field)
	}
	return value, nil
}

func (s *server) formatMoney(value float64) string {
	return money.Format(value, s.locale, s.currency)
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.New("layout.html").Funcs(template.FuncMap{
		"money": s.formatMoney,
	}).ParseFiles(
		"web/templates/layout.html",
		"web/templates/"+page,
	)
	if err != nil {
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" || r.URL.Path == "/static" || strings.HasPrefix(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		if !isAuthenticated(r, s.auth) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
