package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/database"
	"github.com/sondea/sondea-backend/internal/logger"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/repository"
	"github.com/sondea/sondea-backend/internal/service"
)

// Seeds a demo company with one published survey covering every question
// type, plus an active distribution endpoint to scan against.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	companyRepo := repository.NewCompanyRepository(pool)
	surveyRepo := repository.NewSurveyRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	distributionRepo := repository.NewDistributionRepository(pool)

	authService := service.NewAuthService(cfg, rdb)
	companyService := service.NewCompanyService(companyRepo, authService, log)
	surveyService := service.NewSurveyService(surveyRepo, questionRepo, companyRepo, rdb, log)
	questionService := service.NewQuestionService(questionRepo, surveyRepo)
	distributionService := service.NewDistributionService(distributionRepo, surveyRepo)

	fmt.Println("=== Seeding demo company ===")

	company, admin, err := companyService.Register(ctx, &model.RegisterCompanyRequest{
		CompanyName: "Cafetería La Plaza",
		Industry:    "restaurantes",
		AdminName:   "Admin Demo",
		Email:       "demo@sondea.app",
		Password:    "demo-password-1",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register demo company (already seeded?)")
	}
	fmt.Printf("Company %d, admin %s\n", company.ID, admin.Email)

	survey := &model.Survey{
		CompanyID:       company.ID,
		Title:           "Satisfacción en Cafetería La Plaza",
		Description:     "Cuéntanos cómo fue tu visita de hoy.",
		ThankYouMessage: "¡Gracias por tu opinión!",
		ShowCompanyLogo: true,
	}
	if err := surveyService.Create(ctx, survey); err != nil {
		log.Fatal().Err(err).Msg("Failed to create demo survey")
	}

	questions := []model.Question{
		{
			Text:       "¿Cómo calificarías tu experiencia general?",
			Type:       model.QuestionTypeRating,
			Options:    json.RawMessage(`{"scale":5,"labels":[{"value":1,"text":"Muy mala"},{"value":5,"text":"Excelente"}]}`),
			Critical:   true,
			OrderIndex: 0,
		},
		{
			Text:       "¿Qué tan probable es que nos recomiendes a un amigo?",
			Type:       model.QuestionTypeRating,
			Options:    json.RawMessage(`{"scale":10}`),
			OrderIndex: 1,
		},
		{
			Text: "Evalúa los siguientes aspectos de tu visita",
			Type: model.QuestionTypeClassification,
			Options: json.RawMessage(`{"items_to_evaluate":[
				{"id":"atencion","text":"Atención del personal"},
				{"id":"limpieza","text":"Limpieza del local"},
				{"id":"rapidez","text":"Rapidez del servicio"}]}`),
			NAOption:   true,
			OrderIndex: 2,
		},
		{
			Text: "¿Cómo nos conociste?",
			Type: model.QuestionTypeMultipleChoice,
			Options: json.RawMessage(`{"choices":[
				{"id":"redes","text":"Redes sociales"},
				{"id":"recomendacion","text":"Recomendación"},
				{"id":"paso","text":"Pasaba por aquí"}]}`),
			OrderIndex: 3,
		},
		{
			Text:       "Género",
			Type:       model.QuestionTypeGender,
			Options:    json.RawMessage(`{"choices":[{"id":"femenino","text":"Femenino"},{"id":"masculino","text":"Masculino"},{"id":"otro","text":"Otro"}]}`),
			OrderIndex: 4,
		},
		{
			Text:       "Rango de edad",
			Type:       model.QuestionTypeAgeRange,
			Options:    json.RawMessage(`{"choices":[{"id":"18-25","text":"18 a 25"},{"id":"26-40","text":"26 a 40"},{"id":"41+","text":"41 o más"}]}`),
			OrderIndex: 5,
		},
		{
			Text:       "¿Algo más que quieras contarnos?",
			Type:       model.QuestionTypeText,
			Options:    json.RawMessage(`{}`),
			IsCustom:   true,
			OrderIndex: 6,
		},
	}
	for i := range questions {
		questions[i].SurveyID = survey.ID
		if err := questionService.Create(ctx, &questions[i]); err != nil {
			log.Fatal().Err(err).Str("text", questions[i].Text).Msg("Failed to create question")
		}
	}
	fmt.Printf("Created %d questions\n", len(questions))

	if err := surveyService.Publish(ctx, survey.ID, company.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to publish demo survey")
	}

	dist, err := distributionService.Create(ctx, survey.ID, company.ID, &model.CreateDistributionRequest{
		Channel: string(model.DistributionChannelLocation),
		Label:   "Mesa principal",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create distribution")
	}

	fmt.Println("=== Demo seed complete ===")
	fmt.Printf("Survey:        %s\n", survey.ID)
	fmt.Printf("Distribution:  %s\n", dist.ID)
	fmt.Printf("Respondent URL: /api/v1/respondent/surveys/%s\n", dist.ID)
}
