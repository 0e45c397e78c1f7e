// Package catalog defines the per-application-type intake field sets.
//
// Each mass-tort application type maps to its own list of {key, label,
// type} definitions that intake clients render dynamically when that case
// is chosen. The server treats the catalog as advisory: leads may carry
// field keys outside it, since campaign questionnaires change faster than
// deployments.
package catalog

// Field input kinds.
const (
	TypeText     = "text"
	TypeDate     = "date"
	TypeRadio    = "radio"
	TypeCheckbox = "checkbox"
)

// FieldDef describes one intake question for an application type.
type FieldDef struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

var fieldSets = map[string][]FieldDef{
	"CA Wildfire": {
		{Key: "city", Label: "City", Type: TypeText},
		{Key: "state", Label: "State", Type: TypeText},
		{Key: "zip", Label: "ZIP Code", Type: TypeText},
		{Key: "dateOfIncident", Label: "Date of Incident", Type: TypeDate},
		{Key: "descriptionOfIncident", Label: "Description of Incident", Type: TypeText},
		{Key: "wildfireName", Label: "Wildfire Name", Type: TypeText},
		{Key: "homeownerOrRenter", Label: "Homeowner or Renter?", Type: TypeRadio},
		{Key: "maritalStatus", Label: "Marital Status", Type: TypeText},
		{Key: "alreadySignedAttorney", Label: "Already signed with an attorney?", Type: TypeRadio},
	},
	"Hair Relaxer": {
		{Key: "attorney", Label: "Attorney retained?", Type: TypeRadio},
		{Key: "brandUsed", Label: "Brand of Hair Relaxer Used", Type: TypeText},
		{Key: "startDate", Label: "Hair Relaxer Used Start Date", Type: TypeDate},
		{Key: "stopDate", Label: "Hair Relaxer Used Stop Date", Type: TypeDate},
		{Key: "usageFrequency", Label: "How often used (>= 3x/yr for > 1 yr)", Type: TypeText},
		{Key: "injuryType", Label: "Type of Injury", Type: TypeText},
		{Key: "diagnosisDate", Label: "Diagnosis Date", Type: TypeDate},
		{Key: "healthcareFacility", Label: "Healthcare Provider / Facility", Type: TypeText},
		{Key: "breastCancerOrLynch", Label: "Diagnosed with Breast Cancer / Lynch ?", Type: TypeRadio},
	},
	"Depo Provera": {
		{Key: "yearUsed", Label: "Year brand drug first used", Type: TypeText},
		{Key: "usageDuration", Label: "Total years Depo-Provera used", Type: TypeText},
		{Key: "shotFrequency", Label: "How often did you take a shot?", Type: TypeText},
		{Key: "illness", Label: "Illness diagnosed with", Type: TypeText},
		{Key: "symptoms", Label: "Symptoms", Type: TypeText},
		{Key: "diagnosingDoctor", Label: "Doctor who diagnosed you", Type: TypeText},
	},
	"Ride Share": {
		{Key: "incidentDate", Label: "Date of Incident", Type: TypeDate},
		{Key: "role", Label: "Role (Driver / Passenger)", Type: TypeText},
		{Key: "company", Label: "Rideshare Company", Type: TypeText},
		{Key: "physicallyAssaulted", Label: "Physically / sexually assaulted?", Type: TypeRadio},
		{Key: "proofOfRide", Label: "Proof of ride when assaulted?", Type: TypeRadio},
		{Key: "reportDetails", Label: "Report filed (police / company / etc.)", Type: TypeText},
		{Key: "attorney", Label: "Attorney retained for this matter?", Type: TypeRadio},
	},
	"Roundup": {
		{Key: "roundupType", Label: "Type of Roundup used (concentrate / pre-mix)", Type: TypeText},
		{Key: "useDuration", Label: "Total years Roundup used (> 1 yr)", Type: TypeText},
		{Key: "useStart", Label: "Use started (MM/YYYY)", Type: TypeText},
		{Key: "nhlDiagnosed", Label: "Diagnosed with Non-Hodgkin's Lymphoma?", Type: TypeRadio},
		{Key: "nhlDiagnosisDate", Label: "Date of NHL diagnosis", Type: TypeDate},
		{Key: "treatedForNHL", Label: "Received treatment for NHL?", Type: TypeRadio},
		{Key: "treatmentType", Label: "Treatment received (Chemo / Radiation / Both)", Type: TypeText},
		{Key: "hospitalName", Label: "Hospital Name", Type: TypeText},
		{Key: "hospitalAddress", Label: "Hospital Address", Type: TypeText},
		{Key: "doctorName", Label: "Doctor Name", Type: TypeText},
		{Key: "doctorDesignation", Label: "Doctor Designation", Type: TypeText},
	},
	"PFAS": {
		{Key: "diagnosis", Label: "Diagnosis (Kidney / Testicular / etc.)", Type: TypeText},
		{Key: "dateDiagnosed", Label: "Date Diagnosed", Type: TypeDate},
		{Key: "symptomsStage", Label: "Symptoms / Stage", Type: TypeText},
		{Key: "treatment", Label: "Treatment received", Type: TypeText},
		{Key: "prior1970", Label: "Only exposed prior to 1970?", Type: TypeRadio},
		{Key: "attorney", Label: "Currently have an attorney?", Type: TypeRadio},
	},
	"NEC": {
		{Key: "qualifyingInjury", Label: "Qualifying Injury", Type: TypeText},
		{Key: "childName", Label: "Child Name", Type: TypeText},
		{Key: "childDOB", Label: "Child DOB", Type: TypeDate},
		{Key: "diagnoseDate", Label: "NEC Diagnose Date", Type: TypeDate},
		{Key: "weeksAtBirth", Label: "Weeks of pregnancy when gave birth", Type: TypeText},
		{Key: "cowMilkFormula", Label: "Infant given cow-milk formula/fortifier?", Type: TypeRadio},
		{Key: "attorney", Label: "Attorney retained?", Type: TypeRadio},
	},
	"Lung Cancer": {
		{Key: "asbestosExposure", Label: "Diagnosed lung cancer w/ asbestos exposure?", Type: TypeRadio},
		{Key: "whoDiagnosed", Label: "Who diagnosed you?", Type: TypeText},
		{Key: "occupation", Label: "Occupation / Trade (dropdown)", Type: TypeText},
		{Key: "company", Label: "Company worked for", Type: TypeText},
		{Key: "employmentProof", Label: "Can prove employment in that field?", Type: TypeRadio},
	},
	"Paraquat": {
		{Key: "exposureDate", Label: "Date of exposure to Paraquat", Type: TypeDate},
		{Key: "companyName", Label: "Company you worked for", Type: TypeText},
		{Key: "exposuresPerYear", Label: "Times per year exposed (>= 8 lifetime)", Type: TypeText},
		{Key: "geneticTesting", Label: "Had genetic testing for Parkinson's?", Type: TypeRadio},
		{Key: "parkinsonDxDate", Label: "Parkinson's Date of Diagnosis", Type: TypeDate},
		{Key: "symptoms", Label: "Symptoms of Illness", Type: TypeText},
		{Key: "doctorName", Label: "Diagnosing Doctor Name", Type: TypeText},
		{Key: "hospital", Label: "Hospital Name and Address", Type: TypeText},
	},
	"LDS": {
		{Key: "drugPrescribed", Label: "Drug Prescribed", Type: TypeText},
		{Key: "treatedFor", Label: "Condition Treated", Type: TypeText},
		{Key: "reactionType", Label: "Reaction Type", Type: TypeText},
		{Key: "reactionDate", Label: "Date of Reaction", Type: TypeDate},
		{Key: "hospitalization", Label: "Hospitalization Duration", Type: TypeText},
		{Key: "stillOnMedication", Label: "Still on Medication?", Type: TypeRadio},
	},
	"Talcum": {
		{Key: "usageYears", Label: "Start - End Year of Talcum Usage", Type: TypeText},
		{Key: "diagnosis", Label: "Diagnosis", Type: TypeText},
		{Key: "yearDx", Label: "Year of Dx", Type: TypeText},
		{Key: "treatment", Label: "Treatment", Type: TypeText},
		{Key: "attorney", Label: "Attorney retained?", Type: TypeRadio},
		{Key: "hospitalName", Label: "Hospital Name", Type: TypeText},
	},
}

// applicationTypes holds the catalog keys in presentation order.
var applicationTypes = []string{
	"CA Wildfire", "Hair Relaxer", "Depo Provera", "Ride Share", "Roundup",
	"PFAS", "NEC", "Lung Cancer", "Paraquat", "LDS", "Talcum",
}

// ApplicationTypes returns the known application types in presentation
// order. The returned slice is a copy.
func ApplicationTypes() []string {
	out := make([]string, len(applicationTypes))
	copy(out, applicationTypes)
	return out
}

// Fields returns the field definitions for an application type, or nil
// when the type is unknown. The returned slice is a copy.
func Fields(applicationType string) []FieldDef {
	defs, ok := fieldSets[applicationType]
	if !ok {
		return nil
	}
	out := make([]FieldDef, len(defs))
	copy(out, defs)
	return out
}

// IsKnownType reports whether the application type has a field set.
func IsKnownType(applicationType string) bool {
	_, ok := fieldSets[applicationType]
	return ok
}
