package survey

// DefaultSourceURL — публичный CSV GSS 2018
const DefaultSourceURL = "https://raw.githubusercontent.com/jaw7475/dash-heroku-template/master/gss2018.csv"

// DefaultEncoding — кодировка исходного CSV
const DefaultEncoding = "cp1252"

// SentinelTokens — строки, которые в исходных данных означают "значение не записано"
var SentinelTokens = []string{
	"IAP",
	"IAP,DK,NA,uncodeable",
	"NOT SURE",
	"DK",
	"IAP, DK, NA, uncodeable",
	".a",
	"CAN'T CHOOSE",
}

// Имена колонок очищенного набора
const (
	ColID                 = "id"
	ColWeight             = "weight"
	ColSex                = "sex"
	ColEducation          = "education"
	ColRegion             = "region"
	ColAge                = "age"
	ColIncome             = "income"
	ColJobPrestige        = "job_prestige"
	ColMotherJobPrestige  = "mother_job_prestige"
	ColFatherJobPrestige  = "father_job_prestige"
	ColSocioeconomicIndex = "socioeconomic_index"
	ColSatJob             = "satjob"
	ColRelationship       = "relationship"
	ColMaleBreadwinner    = "male_breadwinner"
	ColMenBetterSuited    = "men_bettersuited"
	ColChildSuffer        = "child_suffer"
	ColMenOverwork        = "men_overwork"
)

// SourceColumns — колонки исходного CSV, которые сохраняются при проекции (в этом порядке)
var SourceColumns = []string{
	"id", "wtss", "sex", "educ", "region", "age", "coninc",
	"prestg10", "mapres10", "papres10", "sei10", "satjob",
	"fechld", "fefam", "fepol", "fepresch", "meovrwrk",
}

// Rename — отображение исходных имен колонок в целевые.
// fehire и fejobaff не проецируются; их записи не применяются.
var Rename = map[string]string{
	"wtss":     ColWeight,
	"educ":     ColEducation,
	"coninc":   ColIncome,
	"prestg10": ColJobPrestige,
	"mapres10": ColMotherJobPrestige,
	"papres10": ColFatherJobPrestige,
	"sei10":    ColSocioeconomicIndex,
	"fechld":   ColRelationship,
	"fefam":    ColMaleBreadwinner,
	"fehire":   "hire_women",
	"fejobaff": "preference_hire_women",
	"fepol":    ColMenBetterSuited,
	"fepresch": ColChildSuffer,
	"meovrwrk": ColMenOverwork,
}

// Значения пола
const (
	SexMale   = "male"
	SexFemale = "female"
)
