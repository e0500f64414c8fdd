package registry

import (
	"log/slog"

	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/verify/arganno"
	"github.com/steveyegge/argcheck/internal/verify/argmap"
	"github.com/steveyegge/argcheck/internal/verify/coherence"
	"github.com/steveyegge/argcheck/internal/verify/contentcheck"
	"github.com/steveyegge/argcheck/internal/verify/infreco"
	"github.com/steveyegge/argcheck/internal/verify/logreco"
	"github.com/steveyegge/argcheck/internal/verify/scoring"
)

func roleFilter(opts BuildOptions, role string) verify.VDFilter {
	f, _ := opts.Filters.BuildVDFilter(role)
	return f
}

// --- arganno ---

type argannoBuilder struct{ BaseBuilder }

func newArgannoBuilder() Builder {
	return &argannoBuilder{BaseBuilder{InfoValue: Info{
		Name:               "arganno",
		Description:        "Validates argumentative annotations in XML format",
		InputTypes:         []string{"xml"},
		AllowedFilterRoles: []string{"arganno"},
		ConfigOptions:      []ConfigOption{enabledScorerOption("annotation_coverage_scorer")},
	}}}
}

func (b *argannoBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	filter := roleFilter(opts, "arganno")
	legalArg := getStringSlice(opts.Raw, "legal_argument_labels")
	legalRef := getStringSlice(opts.Raw, "legal_ref_reco_labels")
	pipeline := verify.NewCompositeHandler("arganno_pipeline", logger, []verify.Handler{
		contentcheck.NewHasAnnotations(logger, filter),
		arganno.NewComposite(logger, filter, legalArg, legalRef),
	})
	var scorers []scoring.Scorer
	ctx := scoring.Context{Filters: map[string]verify.VDFilter{"arganno": filter}}
	if scorerEnabled(opts.Raw, "annotation_coverage_scorer") {
		scorers = append(scorers, &scoring.AnnotationCoverageScorer{Name: b.InfoValue.Name, Ctx: ctx})
	}
	return &Built{Pipeline: pipeline, Scorers: scorers}, nil
}

// --- argmap ---

type argmapBuilder struct{ BaseBuilder }

func newArgmapBuilder() Builder {
	return &argmapBuilder{BaseBuilder{InfoValue: Info{
		Name:               "argmap",
		Description:        "Validates argument maps in Argdown format",
		InputTypes:         []string{"argdown"},
		AllowedFilterRoles: []string{"argmap"},
		ConfigOptions: []ConfigOption{
			enabledScorerOption("argmap_size_scorer"),
			enabledScorerOption("argmap_density_scorer"),
			enabledScorerOption("argmap_faithfulness_scorer"),
		},
	}}}
}

func (b *argmapBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	filter := roleFilter(opts, "argmap")
	pipeline := verify.NewCompositeHandler("argmap_pipeline", logger, []verify.Handler{
		contentcheck.NewHasArgdown(logger, filter),
		argmap.NewComposite(logger, filter),
	})
	ctx := scoring.Context{Filters: map[string]verify.VDFilter{"argmap": filter}}
	var scorers []scoring.Scorer
	if scorerEnabled(opts.Raw, "argmap_size_scorer") {
		scorers = append(scorers, &scoring.MapSizeScorer{Name: b.InfoValue.Name, Ctx: ctx})
	}
	if scorerEnabled(opts.Raw, "argmap_density_scorer") {
		scorers = append(scorers, &scoring.MapDensityScorer{Name: b.InfoValue.Name, Ctx: ctx})
	}
	if scorerEnabled(opts.Raw, "argmap_faithfulness_scorer") {
		scorers = append(scorers, &scoring.MapFaithfulnessScorer{Name: b.InfoValue.Name, Ctx: ctx})
	}
	return &Built{Pipeline: pipeline, Scorers: scorers}, nil
}

// --- infreco ---

type infrecoBuilder struct{ BaseBuilder }

func newInfrecoBuilder() Builder {
	return &infrecoBuilder{BaseBuilder{InfoValue: Info{
		Name:               "infreco",
		Description:        "Validates informal premise-conclusion reconstructions in Argdown format",
		InputTypes:         []string{"argdown"},
		AllowedFilterRoles: []string{"infreco"},
		ConfigOptions: []ConfigOption{
			{Name: "from_key", Type: "string", Default: "from", Description: "Inference data key naming referenced premises/conclusions"},
			{Name: "N", Type: "int", Default: 0, Description: "Minimum number of arguments required"},
			enabledScorerOption("infreco_subarguments_scorer"),
			enabledScorerOption("infreco_premises_scorer"),
			enabledScorerOption("infreco_faithfulness_scorer"),
		},
	}}}
}

func (b *infrecoBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	filter := roleFilter(opts, "infreco")
	fromKey := getString(opts.Raw, "from_key", "from")
	pipeline := verify.NewCompositeHandler("infreco_pipeline", logger, []verify.Handler{
		contentcheck.NewHasArgdown(logger, filter),
		infreco.NewComposite(logger, filter, infreco.Options{FromKey: fromKey, N: getInt(opts.Raw, "N")}),
	})
	ctx := scoring.Context{Filters: map[string]verify.VDFilter{"infreco": filter}}
	var scorers []scoring.Scorer
	if scorerEnabled(opts.Raw, "infreco_subarguments_scorer") {
		scorers = append(scorers, &scoring.SubargumentsScorer{Name: b.InfoValue.Name, Ctx: ctx, Role: "infreco"})
	}
	if scorerEnabled(opts.Raw, "infreco_premises_scorer") {
		scorers = append(scorers, &scoring.PremisesScorer{Name: b.InfoValue.Name, Ctx: ctx, Role: "infreco"})
	}
	if scorerEnabled(opts.Raw, "infreco_faithfulness_scorer") {
		scorers = append(scorers, &scoring.FaithfulnessScorer{Name: b.InfoValue.Name, Ctx: ctx, Role: "infreco", ScorerID: "infreco_faithfulness_scorer"})
	}
	return &Built{Pipeline: pipeline, Scorers: scorers}, nil
}

// --- logreco ---

type logrecoBuilder struct{ BaseBuilder }

func newLogrecoBuilder() Builder {
	return &logrecoBuilder{BaseBuilder{InfoValue: Info{
		Name:               "logreco",
		Description:        "Validates logical premise-conclusion reconstructions in Argdown format",
		InputTypes:         []string{"argdown"},
		AllowedFilterRoles: []string{"logreco"},
		ConfigOptions: []ConfigOption{
			{Name: "from_key", Type: "string", Default: "from", Description: "Inference data key naming referenced premises/conclusions"},
			{Name: "formalization_key", Type: "string", Default: "formalization", Description: "Proposition inline-data key carrying the logical formalization"},
			{Name: "declarations_key", Type: "string", Default: "declarations", Description: "Argument inline-data key carrying symbol declarations"},
			{Name: "N", Type: "int", Default: 0, Description: "Minimum number of arguments required"},
			enabledScorerOption("logreco_subarguments_scorer"),
			enabledScorerOption("logreco_premises_scorer"),
			enabledScorerOption("logreco_faithfulness_scorer"),
			enabledScorerOption("logreco_predicate_logic_scorer"),
			enabledScorerOption("logreco_triviality_scorer"),
		},
	}}}
}

func (b *logrecoBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	filter := roleFilter(opts, "logreco")
	fromKey := getString(opts.Raw, "from_key", "from")
	formalizationKey := getString(opts.Raw, "formalization_key", "formalization")
	declarationsKey := getString(opts.Raw, "declarations_key", "declarations")
	lopts := logreco.Options{FromKey: fromKey, FormalizationKey: formalizationKey, DeclarationsKey: declarationsKey, N: getInt(opts.Raw, "N")}
	pipeline := verify.NewCompositeHandler("logreco_pipeline", logger, []verify.Handler{
		contentcheck.NewHasArgdown(logger, filter),
		logreco.NewComposite(logger, filter, lopts),
	})
	ctx := scoring.Context{Filters: map[string]verify.VDFilter{"logreco": filter}}
	var scorers []scoring.Scorer
	if scorerEnabled(opts.Raw, "logreco_subarguments_scorer") {
		scorers = append(scorers, &scoring.SubargumentsScorer{Name: b.InfoValue.Name, Ctx: ctx, Role: "logreco"})
	}
	if scorerEnabled(opts.Raw, "logreco_premises_scorer") {
		scorers = append(scorers, &scoring.PremisesScorer{Name: b.InfoValue.Name, Ctx: ctx, Role: "logreco"})
	}
	if scorerEnabled(opts.Raw, "logreco_faithfulness_scorer") {
		scorers = append(scorers, &scoring.FaithfulnessScorer{Name: b.InfoValue.Name, Ctx: ctx, Role: "logreco", ScorerID: "logreco_faithfulness_scorer"})
	}
	if scorerEnabled(opts.Raw, "logreco_predicate_logic_scorer") {
		scorers = append(scorers, &scoring.PredicateLogicScorer{Name: b.InfoValue.Name, Ctx: ctx, Role: "logreco"})
	}
	if scorerEnabled(opts.Raw, "logreco_triviality_scorer") {
		scorers = append(scorers, &scoring.TrivialityScorer{Name: b.InfoValue.Name, Ctx: ctx, Role: "logreco", FromKey: fromKey})
	}
	return &Built{Pipeline: pipeline, Scorers: scorers}, nil
}

// --- has_annotations / has_argdown ---

type hasAnnotationsBuilder struct{ BaseBuilder }

func newHasAnnotationsBuilder() Builder {
	return &hasAnnotationsBuilder{BaseBuilder{InfoValue: Info{
		Name:               "has_annotations",
		Description:        "Checks that the input contains at least one parsed xml annotation block",
		InputTypes:         []string{"xml"},
		AllowedFilterRoles: []string{"arganno"},
	}}}
}

func (b *hasAnnotationsBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	filter := roleFilter(opts, "arganno")
	pipeline := verify.NewCompositeHandler("has_annotations_pipeline", logger, []verify.Handler{
		contentcheck.NewHasAnnotations(logger, filter),
	})
	return &Built{Pipeline: pipeline}, nil
}

type hasArgdownBuilder struct{ BaseBuilder }

func newHasArgdownBuilder() Builder {
	return &hasArgdownBuilder{BaseBuilder{InfoValue: Info{
		Name:               "has_argdown",
		Description:        "Checks that the input contains at least one parsed argdown block",
		InputTypes:         []string{"argdown"},
		AllowedFilterRoles: []string{"argmap", "infreco", "logreco"},
	}}}
}

func (b *hasArgdownBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	// has_argdown has no single fixed role: it uses the filter of the first
	// configured role in argmap, infreco, logreco order, and is unfiltered
	// when none of them is configured.
	var filter verify.VDFilter = verify.AlwaysTrue
	for _, role := range []string{"argmap", "infreco", "logreco"} {
		if _, has := opts.Filters[role]; has {
			filter = roleFilter(opts, role)
			break
		}
	}
	pipeline := verify.NewCompositeHandler("has_argdown_pipeline", logger, []verify.Handler{
		contentcheck.NewHasArgdown(logger, filter),
	})
	return &Built{Pipeline: pipeline}, nil
}

// --- coherence builders ---

func annoFilter(opts BuildOptions) verify.VDFilter  { return roleFilter(opts, "arganno") }
func mapFilter(opts BuildOptions) verify.VDFilter   { return roleFilter(opts, "argmap") }
func recoFilter(opts BuildOptions, role string) verify.VDFilter { return roleFilter(opts, role) }

type argannoArgmapBuilder struct{ BaseBuilder }

func newArgannoArgmapBuilder() Builder {
	return &argannoArgmapBuilder{BaseBuilder{InfoValue: Info{
		Name:               "arganno_argmap",
		Description:        "Validates argumentative annotations and an argument map, each with its own checks; no cross-artifact coherence check is run",
		InputTypes:         []string{"xml", "argdown"},
		AllowedFilterRoles: []string{"arganno", "argmap"},
		IsCoherenceVerifier: true,
	}}}
}

func (b *argannoArgmapBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	af, mf := annoFilter(opts), mapFilter(opts)
	pipeline := verify.NewCompositeHandler("arganno_argmap_pipeline", logger, []verify.Handler{
		contentcheck.NewHasAnnotations(logger, af),
		contentcheck.NewHasArgdown(logger, mf),
		arganno.NewComposite(logger, af, nil, nil),
		argmap.NewComposite(logger, mf),
	})
	return &Built{Pipeline: pipeline}, nil
}

type argannoInfrecoBuilder struct{ BaseBuilder }

func newArgannoInfrecoBuilder() Builder {
	return &argannoInfrecoBuilder{BaseBuilder{InfoValue: Info{
		Name:               "arganno_infreco",
		Description:        "Validates argumentative annotations together with an informal reconstruction and their mutual coherence",
		InputTypes:         []string{"xml", "argdown"},
		AllowedFilterRoles: []string{"arganno", "infreco"},
		ConfigOptions: []ConfigOption{
			{Name: "from_key", Type: "string", Default: "from", Description: "Inference data key naming referenced premises/conclusions"},
		},
		IsCoherenceVerifier: true,
	}}}
}

func (b *argannoInfrecoBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	af, rf := annoFilter(opts), recoFilter(opts, "infreco")
	fromKey := getString(opts.Raw, "from_key", "from")
	pipeline := verify.NewCompositeHandler("arganno_infreco_pipeline", logger, []verify.Handler{
		contentcheck.NewHasAnnotations(logger, af),
		contentcheck.NewHasArgdown(logger, rf),
		arganno.NewComposite(logger, af, nil, nil),
		infreco.NewComposite(logger, rf, infreco.Options{FromKey: fromKey}),
		coherence.NewArgannoRecoElements("Arganno_InfReco.ElementsHandler", logger, af, rf),
		coherence.NewArgannoRecoRelations("Arganno_InfReco.RelationsHandler", logger, af, rf, fromKey),
	})
	return &Built{Pipeline: pipeline}, nil
}

type argannoLogrecoBuilder struct{ BaseBuilder }

func newArgannoLogrecoBuilder() Builder {
	return &argannoLogrecoBuilder{BaseBuilder{InfoValue: Info{
		Name:               "arganno_logreco",
		Description:        "Validates argumentative annotations together with a logical reconstruction and their mutual coherence",
		InputTypes:         []string{"xml", "argdown"},
		AllowedFilterRoles: []string{"arganno", "logreco"},
		ConfigOptions: []ConfigOption{
			{Name: "from_key", Type: "string", Default: "from", Description: "Inference data key naming referenced premises/conclusions"},
			{Name: "formalization_key", Type: "string", Default: "formalization", Description: "Proposition inline-data key carrying the logical formalization"},
			{Name: "declarations_key", Type: "string", Default: "declarations", Description: "Argument inline-data key carrying symbol declarations"},
		},
		IsCoherenceVerifier: true,
	}}}
}

func (b *argannoLogrecoBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	af, rf := annoFilter(opts), recoFilter(opts, "logreco")
	fromKey := getString(opts.Raw, "from_key", "from")
	lopts := logreco.Options{
		FromKey:          fromKey,
		FormalizationKey: getString(opts.Raw, "formalization_key", "formalization"),
		DeclarationsKey:  getString(opts.Raw, "declarations_key", "declarations"),
	}
	pipeline := verify.NewCompositeHandler("arganno_logreco_pipeline", logger, []verify.Handler{
		contentcheck.NewHasAnnotations(logger, af),
		contentcheck.NewHasArgdown(logger, rf),
		arganno.NewComposite(logger, af, nil, nil),
		logreco.NewComposite(logger, rf, lopts),
		coherence.NewArgannoRecoElements("Arganno_LogReco.ElementsHandler", logger, af, rf),
		coherence.NewArgannoRecoRelations("Arganno_LogReco.RelationsHandler", logger, af, rf, fromKey),
	})
	return &Built{Pipeline: pipeline}, nil
}

type argmapInfrecoBuilder struct{ BaseBuilder }

func newArgmapInfrecoBuilder() Builder {
	return &argmapInfrecoBuilder{BaseBuilder{InfoValue: Info{
		Name:               "argmap_infreco",
		Description:        "Validates an argument map together with an informal reconstruction and their mutual coherence",
		InputTypes:         []string{"argdown"},
		AllowedFilterRoles: []string{"argmap", "infreco"},
		ConfigOptions: []ConfigOption{
			{Name: "from_key", Type: "string", Default: "from", Description: "Inference data key naming referenced premises/conclusions"},
		},
		IsCoherenceVerifier: true,
	}}}
}

func (b *argmapInfrecoBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	mf, rf := mapFilter(opts), recoFilter(opts, "infreco")
	fromKey := getString(opts.Raw, "from_key", "from")
	pipeline := verify.NewCompositeHandler("argmap_infreco_pipeline", logger, []verify.Handler{
		contentcheck.NewHasArgdown(logger, mf),
		contentcheck.NewHasArgdown(logger, rf),
		argmap.NewComposite(logger, mf),
		infreco.NewComposite(logger, rf, infreco.Options{FromKey: fromKey}),
		coherence.NewArgmapRecoElements("ArgMap_InfReco.ElementsHandler", logger, mf, rf),
		coherence.NewArgmapRecoRelations("ArgMap_InfReco.RelationsHandler", logger, mf, rf),
	})
	return &Built{Pipeline: pipeline}, nil
}

type argmapLogrecoBuilder struct{ BaseBuilder }

func newArgmapLogrecoBuilder() Builder {
	return &argmapLogrecoBuilder{BaseBuilder{InfoValue: Info{
		Name:               "argmap_logreco",
		Description:        "Validates an argument map together with a logical reconstruction and their mutual coherence",
		InputTypes:         []string{"argdown"},
		AllowedFilterRoles: []string{"argmap", "logreco"},
		ConfigOptions: []ConfigOption{
			{Name: "from_key", Type: "string", Default: "from", Description: "Inference data key naming referenced premises/conclusions"},
			{Name: "formalization_key", Type: "string", Default: "formalization", Description: "Proposition inline-data key carrying the logical formalization"},
			{Name: "declarations_key", Type: "string", Default: "declarations", Description: "Argument inline-data key carrying symbol declarations"},
			enabledScorerOption("argmap_size_scorer"),
		},
		IsCoherenceVerifier: true,
	}}}
}

func (b *argmapLogrecoBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	mf, rf := mapFilter(opts), recoFilter(opts, "logreco")
	fromKey := getString(opts.Raw, "from_key", "from")
	lopts := logreco.Options{
		FromKey:          fromKey,
		FormalizationKey: getString(opts.Raw, "formalization_key", "formalization"),
		DeclarationsKey:  getString(opts.Raw, "declarations_key", "declarations"),
	}
	pipeline := verify.NewCompositeHandler("argmap_logreco_pipeline", logger, []verify.Handler{
		contentcheck.NewHasArgdown(logger, mf),
		contentcheck.NewHasArgdown(logger, rf),
		argmap.NewComposite(logger, mf),
		logreco.NewComposite(logger, rf, lopts),
		coherence.NewArgmapRecoElements("ArgMap_LogReco.ElementsHandler", logger, mf, rf),
		coherence.NewArgmapRecoRelations("ArgMap_LogReco.RelationsHandler", logger, mf, rf),
		coherence.NewArgmapLogrecoIndirectCoherence("ArgMap_LogReco.IndirectCoherenceHandler", logger, mf, rf),
	})
	ctx := scoring.Context{Filters: map[string]verify.VDFilter{"argmap": mf, "logreco": rf}}
	var scorers []scoring.Scorer
	if scorerEnabled(opts.Raw, "argmap_size_scorer") {
		scorers = append(scorers, &scoring.MapSizeScorer{Name: b.InfoValue.Name, Ctx: ctx})
	}
	return &Built{Pipeline: pipeline, Scorers: scorers}, nil
}

type argannoArgmapLogrecoBuilder struct{ BaseBuilder }

func newArgannoArgmapLogrecoBuilder() Builder {
	return &argannoArgmapLogrecoBuilder{BaseBuilder{InfoValue: Info{
		Name:               "arganno_argmap_logreco",
		Description:        "Validates argumentative annotations, an argument map, and a logical reconstruction together with their full mutual coherence",
		InputTypes:         []string{"xml", "argdown"},
		AllowedFilterRoles: []string{"arganno", "argmap", "logreco"},
		ConfigOptions: []ConfigOption{
			{Name: "from_key", Type: "string", Default: "from", Description: "Inference data key naming referenced premises/conclusions"},
			{Name: "formalization_key", Type: "string", Default: "formalization", Description: "Proposition inline-data key carrying the logical formalization"},
			{Name: "declarations_key", Type: "string", Default: "declarations", Description: "Argument inline-data key carrying symbol declarations"},
		},
		IsCoherenceVerifier: true,
	}}}
}

func (b *argannoArgmapLogrecoBuilder) Build(logger *slog.Logger, opts BuildOptions) (*Built, error) {
	af, mf, rf := annoFilter(opts), mapFilter(opts), recoFilter(opts, "logreco")
	fromKey := getString(opts.Raw, "from_key", "from")
	lopts := logreco.Options{
		FromKey:          fromKey,
		FormalizationKey: getString(opts.Raw, "formalization_key", "formalization"),
		DeclarationsKey:  getString(opts.Raw, "declarations_key", "declarations"),
	}
	pipeline := verify.NewCompositeHandler("arganno_argmap_logreco_pipeline", logger, []verify.Handler{
		contentcheck.NewHasAnnotations(logger, af),
		contentcheck.NewHasArgdown(logger, mf),
		contentcheck.NewHasArgdown(logger, rf),
		arganno.NewComposite(logger, af, nil, nil),
		argmap.NewComposite(logger, mf),
		logreco.NewComposite(logger, rf, lopts),
		coherence.NewArgannoRecoElements("Arganno_ArgMap_LogReco.AnnoRecoElementsHandler", logger, af, rf),
		coherence.NewArgannoRecoRelations("Arganno_ArgMap_LogReco.AnnoRecoRelationsHandler", logger, af, rf, fromKey),
		coherence.NewArgmapRecoElements("Arganno_ArgMap_LogReco.MapRecoElementsHandler", logger, mf, rf),
		coherence.NewArgmapRecoRelations("Arganno_ArgMap_LogReco.MapRecoRelationsHandler", logger, mf, rf),
		coherence.NewArgmapLogrecoIndirectCoherence("Arganno_ArgMap_LogReco.IndirectCoherenceHandler", logger, mf, rf),
	})
	return &Built{Pipeline: pipeline}, nil
}

// Default returns a Registry with all 12 registered verifiers.
func Default() *Registry {
	r := New()
	for name, b := range map[string]Builder{
		"arganno":                newArgannoBuilder(),
		"argmap":                 newArgmapBuilder(),
		"infreco":                newInfrecoBuilder(),
		"logreco":                newLogrecoBuilder(),
		"has_annotations":        newHasAnnotationsBuilder(),
		"has_argdown":            newHasArgdownBuilder(),
		"arganno_argmap":         newArgannoArgmapBuilder(),
		"arganno_infreco":        newArgannoInfrecoBuilder(),
		"arganno_logreco":        newArgannoLogrecoBuilder(),
		"argmap_infreco":         newArgmapInfrecoBuilder(),
		"argmap_logreco":         newArgmapLogrecoBuilder(),
		"arganno_argmap_logreco": newArgannoArgmapLogrecoBuilder(),
	} {
		_ = r.Register(name, b)
	}
	return r
}
