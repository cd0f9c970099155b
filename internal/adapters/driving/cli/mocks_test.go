package cli

import (
	"context"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driving"
)

// fakePipeline is a scriptable driving.ProtocolPipeline.
type fakePipeline struct {
	analyzeResult *domain.AnalysisResult
	analyzeErr    error
	generateDocs  *domain.FinalDocuments
	generateErr   error

	analyzeCalls  int
	generateCalls int
	lastStudy     domain.StudyDetails
	lastSelected  []string
	lastSchedule  bool
	lastAnalysis  *domain.AnalysisResult
}

var _ driving.ProtocolPipeline = (*fakePipeline)(nil)

func (f *fakePipeline) AnalyzeProtocol(_ context.Context, _ string, study domain.StudyDetails) (*domain.AnalysisResult, error) {
	f.analyzeCalls++
	f.lastStudy = study
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.analyzeResult, nil
}

func (f *fakePipeline) GenerateFinalDocuments(_ context.Context, _ string, selected []string, includeSchedule bool, analysis *domain.AnalysisResult) (*domain.FinalDocuments, error) {
	f.generateCalls++
	f.lastSelected = selected
	f.lastSchedule = includeSchedule
	f.lastAnalysis = analysis
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.generateDocs, nil
}

// fakeSettingsService is an in-memory driving.SettingsService.
type fakeSettingsService struct {
	settings *domain.AppSettings
	saveErr  error

	lastAPIKey   string
	lastProvider domain.AIProvider
	lastModel    string
}

var _ driving.SettingsService = (*fakeSettingsService)(nil)

func (f *fakeSettingsService) Get() (*domain.AppSettings, error) {
	if f.settings == nil {
		return domain.DefaultAppSettings(), nil
	}
	return f.settings, nil
}

func (f *fakeSettingsService) Save(settings *domain.AppSettings) error {
	f.settings = settings
	return f.saveErr
}

func (f *fakeSettingsService) SetAPIKey(key string) error {
	f.lastAPIKey = key
	return f.saveErr
}

func (f *fakeSettingsService) SetProvider(provider domain.AIProvider, model string) error {
	f.lastProvider = provider
	f.lastModel = model
	return f.saveErr
}

// testAnalysisResult returns a small but complete analysis result.
func testAnalysisResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Metrics: domain.SectionMetrics{Complexity: 0.5, Completeness: 0.6, Efficiency: 0.7},
		Suggestions: []domain.Suggestion{
			{
				ID:             "sugg-1",
				Type:           domain.SuggestionImprovement,
				Impact:         domain.ImpactHigh,
				Message:        "Add missing adverse event form",
				Recommendation: "Include the standard AE reporting form",
				Section:        "Section 1",
				Category:       domain.CategorySafety,
			},
			{
				ID:       "sugg-2",
				Type:     domain.SuggestionWarning,
				Impact:   domain.ImpactLow,
				Message:  "Standardize terminology for study visits",
				Section:  "Section 2",
				Category: domain.CategoryGeneral,
			},
		},
		StudySchedule: domain.StudySchedule{
			Visits: []domain.ScheduleVisit{
				{
					Name:   "Screening",
					Window: "-14d",
					Procedures: []domain.Procedure{
						{Name: "Informed Consent", Required: true, Notes: domain.AnnotationCritical},
					},
				},
			},
			Procedures: []string{"Informed Consent"},
		},
		SectionMetrics: map[string]domain.SectionMetrics{
			"Section 1": {Complexity: 0.5, Completeness: 0.6, Efficiency: 0.7},
		},
	}
}

// setupTestServices replaces the package services with fakes and returns
// them along with a cleanup function.
func setupTestServices() (*fakePipeline, *fakeSettingsService, func()) {
	pipeline := &fakePipeline{
		analyzeResult: testAnalysisResult(),
		generateDocs: &domain.FinalDocuments{
			Protocol:   "Protocol Version: 2.0\n\n1. Introduction\n\nImproved text.",
			Schedule:   testAnalysisResult().StudySchedule,
			Validation: domain.ValidationReport{IsValid: true},
		},
	}
	settings := &fakeSettingsService{}

	oldSettings := settingsService
	oldNewPipeline := newPipeline

	settingsService = settings
	newPipeline = func() (driving.ProtocolPipeline, error) {
		return pipeline, nil
	}

	return pipeline, settings, func() {
		settingsService = oldSettings
		newPipeline = oldNewPipeline
	}
}
