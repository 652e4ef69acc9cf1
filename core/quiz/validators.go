package quiz

import (
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/pujaripavansai28/LMS/core"
)

var (
	qTypeTag  = "qtype"
	qTypeText = "question_type must be one of " + strings.Join(QuestionTypes, ", ")

	mcqOptionsTag  = "mcqoptions"
	mcqOptionsText = "mcq questions need at least 2 non-empty options"

	mcqAnswerTag  = "mcqanswer"
	mcqAnswerText = "answer must be the number of one of the options"

	tfAnswerTag  = "tfanswer"
	tfAnswerText = "answer must be true or false"

	numAnswerTag  = "numanswer"
	numAnswerText = "answer must be a number"
)

// InitValidators registers the quiz validators. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(qTypeTag, qTypeValidation)
	core.RegisterCustomTranslation(validate, translator, qTypeTag, qTypeText)

	validate.RegisterStructValidation(questionStructValidation, NewQuestion{})
	core.RegisterCustomTranslation(validate, translator, mcqOptionsTag, mcqOptionsText)
	core.RegisterCustomTranslation(validate, translator, mcqAnswerTag, mcqAnswerText)
	core.RegisterCustomTranslation(validate, translator, tfAnswerTag, tfAnswerText)
	core.RegisterCustomTranslation(validate, translator, numAnswerTag, numAnswerText)
}

func qTypeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, t := range QuestionTypes {
		if val == t {
			return true
		}
	}
	return false
}

// questionStructValidation checks the answer against the question type.
func questionStructValidation(sl validator.StructLevel) {
	nq, ok := sl.Current().Interface().(NewQuestion)
	if !ok || nq.Answer == "" {
		return
	}

	switch nq.QuestionType {
	case TypeMCQ:
		if len(nq.Options) < 2 {
			sl.ReportError(nq.Options, "options", "Options", mcqOptionsTag, "")
			return
		}
		for _, opt := range nq.Options {
			if opt == "" {
				sl.ReportError(nq.Options, "options", "Options", mcqOptionsTag, "")
				return
			}
		}
		if n, err := strconv.Atoi(nq.Answer); err != nil || n < 1 || n > len(nq.Options) {
			sl.ReportError(nq.Answer, "answer", "Answer", mcqAnswerTag, "")
		}
	case TypeTrueFalse:
		if nq.Answer != "true" && nq.Answer != "false" {
			sl.ReportError(nq.Answer, "answer", "Answer", tfAnswerTag, "")
		}
	case TypeNumerical:
		if _, err := strconv.ParseFloat(nq.Answer, 64); err != nil {
			sl.ReportError(nq.Answer, "answer", "Answer", numAnswerTag, "")
		}
	}
}
