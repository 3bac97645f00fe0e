package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ddqcheck/internal/finding"
)

const (
	reasonSignatureMissing = "Signature/name/date is missing."
	reasonMandatoryEmpty   = "Mandatory field is empty."
	reasonFilename         = "Expected a filename (e.g., .pdf/.docx) but none found."
	reasonNumberAndText    = "Expected both a number and descriptive text."
	reasonEmail            = "Expected a valid email address."
	reasonPhone            = "Expected a valid phone number."
	reasonURL              = "Expected a website/URL."
	reasonReferenceOnly    = "Reference-only answers are not acceptable; provide substantive text."
	reasonRefusal          = "Refusal-style answers are not acceptable for this question."
	reasonNeedsEvidence    = "Answer references an attachment/section; requires document evidence retrieval."
	reasonExpectedYes      = "Expected a 'Yes/Confirmed' style answer based on model answer."
	reasonExpectedNo       = "Expected a 'No' style answer based on model answer."
)

// referencePolicy describes the reference and refusal checks of one category.
type referencePolicy struct {
	category Category
	// allowPolicyMention exempts answers that cite a policy by name.
	allowPolicyMention bool
}

var referencePolicies = []referencePolicy{
	{category: CategoryFundManagement, allowPolicyMention: true},
	{category: CategoryRegTA},
	{category: CategoryZVFoBu},
	{category: CategoryCustodian},
}

func builtinChain() []rule {
	return []rule{
		{name: "gate", check: checkGate},
		{name: "signature", check: checkSignature},
		{name: "empty-answer", check: checkEmptyAnswer},
		{name: "forbidden-token", check: checkForbiddenToken},
		{name: "filename", check: checkFilename},
		{name: "general-sheet", check: checkGeneralSheet},
		{name: "category-policy", check: checkCategoryPolicy},
		{name: "internal-audit-sheet", check: checkInternalAuditSheet},
		{name: "reference", check: checkReference},
		{name: "yes-no", check: checkYesNo},
		{name: "descriptive", check: checkDescriptive},
	}
}

func checkGate(in *input) outcome {
	if !ShouldValidate(in.row) {
		return accept()
	}
	return proceed()
}

func checkSignature(in *input) outcome {
	if !IsSignatureRow(in.row) {
		return proceed()
	}
	if _, forbidden := ContainsForbidden(in.answer, in.cfg.ForbiddenTokens); in.answer == "" || forbidden {
		return flag(finding.StatusIncomplete, reasonSignatureMissing, finding.Details{"expected": "signature"})
	}
	return accept()
}

func checkEmptyAnswer(in *input) outcome {
	if in.answer != "" {
		return proceed()
	}
	if in.mandatory {
		return flag(finding.StatusRejected, reasonMandatoryEmpty, finding.Details{"mandatory": true})
	}
	return accept()
}

func checkForbiddenToken(in *input) outcome {
	tok, ok := ContainsForbidden(in.answer, in.cfg.ForbiddenTokens)
	if !ok || !in.mandatory {
		return proceed()
	}
	reason := fmt.Sprintf("Answer contains forbidden placeholder: '%s'.", tok)
	return flag(finding.StatusRejected, reason, finding.Details{"forbidden": tok})
}

func checkFilename(in *input) outcome {
	if ExpectedRequiresFilename(in.expected) && !LooksLikeFilename(in.answer) {
		return flag(finding.StatusIncomplete, reasonFilename, finding.Details{"expected": "filename"})
	}
	return proceed()
}

func checkGeneralSheet(in *input) outcome {
	if !CategoryGeneral.Matches(in.row.Sheet) {
		return proceed()
	}
	e := strings.ToLower(in.expected)
	if ExpectedRequiresNumberAndText(in.expected) && !HasNumberAndText(in.answer) {
		return flag(finding.StatusIncomplete, reasonNumberAndText, finding.Details{"expected": "number+text"})
	}
	if containsAny(in.question, []string{"e-mail", "email"}) || strings.Contains(e, "e-mail") {
		if !LooksLikeEmail(in.answer) {
			return flag(finding.StatusIncomplete, reasonEmail, finding.Details{"expected": "email"})
		}
	}
	if containsAny(in.question, []string{"telefon", "phone"}) || strings.Contains(e, "telefon") {
		if !LooksLikePhone(in.answer) {
			return flag(finding.StatusIncomplete, reasonPhone, finding.Details{"expected": "phone"})
		}
	}
	if containsAny(in.question, []string{"website", "web"}) {
		if !LooksLikeURL(in.answer) {
			return flag(finding.StatusIncomplete, reasonURL, finding.Details{"expected": "url"})
		}
	}
	if ExpectedContentNotRelevant(in.expected) {
		return accept()
	}
	return proceed()
}

func checkCategoryPolicy(in *input) outcome {
	for _, policy := range referencePolicies {
		if !policy.category.Matches(in.row.Sheet) {
			continue
		}
		if ExpectedDisallowReference(in.expected) && DetectReference(in.answer) {
			cited := policy.allowPolicyMention && strings.Contains(strings.ToLower(in.answer), "policy")
			if !cited {
				return flag(finding.StatusRejected, reasonReferenceOnly, finding.Details{"reference_only": true})
			}
		}
		if ExpectedDisallowRefusal(in.expected) && DetectRefusal(in.answer) {
			return flag(finding.StatusRejected, reasonRefusal, finding.Details{"refusal": true})
		}
	}
	return proceed()
}

func checkInternalAuditSheet(in *input) outcome {
	if !CategoryInternalAudit.Matches(in.row.Sheet) {
		return proceed()
	}
	if ExpectedRequiresNumberAndText(in.expected) && !HasNumberAndText(in.answer) {
		return flag(finding.StatusIncomplete, reasonNumberAndText, finding.Details{"expected": "number+text"})
	}
	return proceed()
}

func checkReference(in *input) outcome {
	if DetectReference(in.answer) {
		return flag(finding.StatusNeedsEvidence, reasonNeedsEvidence, finding.Details{"reference_detected": true})
	}
	return proceed()
}

func checkYesNo(in *input) outcome {
	switch ExpectedYesNo(in.expected) {
	case YesNoYes:
		if !HasYes(in.answer) {
			return flag(finding.StatusIncomplete, reasonExpectedYes, finding.Details{"expected": "YES"})
		}
	case YesNoNo:
		if !HasNo(in.answer) {
			return flag(finding.StatusIncomplete, reasonExpectedNo, finding.Details{"expected": "NO"})
		}
	}
	return proceed()
}

func checkDescriptive(in *input) outcome {
	descriptive := strings.Contains(strings.ToLower(in.expected), "[text]") || descriptiveVerbPattern.MatchString(in.row.QuestionText)
	if !descriptive {
		return proceed()
	}
	length := utf8.RuneCountInString(in.answer)
	if length >= in.cfg.MinLenDescriptive {
		return proceed()
	}
	reason := fmt.Sprintf("Answer is too short for a descriptive question (min %d chars).", in.cfg.MinLenDescriptive)
	return flag(finding.StatusIncomplete, reason, finding.Details{"min_len": in.cfg.MinLenDescriptive, "actual_len": length})
}
