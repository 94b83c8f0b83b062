package questionbank

// seedQuestions is the built-in diagnostic bank.
// Four grade bands (1-2, 3-4, 5-6, 7-8) with at least 3 questions per
// domain in each band.
var seedQuestions = []Question{
	// Grades 1-2
	{ID: "g12-pv-1", Domain: DomainPlaceValue, GradeMin: 1, GradeMax: 2, Order: 1, Prompt: "How many tens are in 47?", Answer: "4"},
	{ID: "g12-pv-2", Domain: DomainPlaceValue, GradeMin: 1, GradeMax: 2, Order: 2, Prompt: "What number is 3 tens and 5 ones?", Answer: "35"},
	{ID: "g12-pv-3", Domain: DomainPlaceValue, GradeMin: 1, GradeMax: 2, Order: 3, Prompt: "Which is bigger, 62 or 26?", Answer: "62"},
	{ID: "g12-add-1", Domain: DomainAddition, GradeMin: 1, GradeMax: 2, Order: 1, Prompt: "What is 4 + 3?", Answer: "7"},
	{ID: "g12-add-2", Domain: DomainAddition, GradeMin: 1, GradeMax: 2, Order: 2, Prompt: "What is 8 + 6?", Answer: "14"},
	{ID: "g12-add-3", Domain: DomainAddition, GradeMin: 1, GradeMax: 2, Order: 3, Prompt: "What is 23 + 15?", Answer: "38"},
	{ID: "g12-sub-1", Domain: DomainSubtraction, GradeMin: 1, GradeMax: 2, Order: 1, Prompt: "What is 9 - 4?", Answer: "5"},
	{ID: "g12-sub-2", Domain: DomainSubtraction, GradeMin: 1, GradeMax: 2, Order: 2, Prompt: "What is 15 - 7?", Answer: "8"},
	{ID: "g12-sub-3", Domain: DomainSubtraction, GradeMin: 1, GradeMax: 2, Order: 3, Prompt: "What is 40 - 12?", Answer: "28"},
	// Grades 3-4
	{ID: "g34-add-1", Domain: DomainAddition, GradeMin: 3, GradeMax: 4, Order: 1, Prompt: "What is 345 + 278?", Answer: "623"},
	{ID: "g34-add-2", Domain: DomainAddition, GradeMin: 3, GradeMax: 4, Order: 2, Prompt: "What is 1,206 + 395?", Answer: "1601"},
	{ID: "g34-add-3", Domain: DomainAddition, GradeMin: 3, GradeMax: 4, Order: 3, Prompt: "Sam has 128 stickers and gets 76 more. How many now?", Answer: "204"},
	{ID: "g34-add-4", Domain: DomainAddition, GradeMin: 3, GradeMax: 4, Order: 4, Prompt: "What is 999 + 1?", Answer: "1000"},
	{ID: "g34-sub-1", Domain: DomainSubtraction, GradeMin: 3, GradeMax: 4, Order: 1, Prompt: "What is 502 - 167?", Answer: "335"},
	{ID: "g34-sub-2", Domain: DomainSubtraction, GradeMin: 3, GradeMax: 4, Order: 2, Prompt: "What is 1,000 - 458?", Answer: "542"},
	{ID: "g34-sub-3", Domain: DomainSubtraction, GradeMin: 3, GradeMax: 4, Order: 3, Prompt: "A book has 312 pages. Mia read 145. How many are left?", Answer: "167"},
	{ID: "g34-mul-1", Domain: DomainMultiplication, GradeMin: 3, GradeMax: 4, Order: 1, Prompt: "What is 7 x 8?", Answer: "56"},
	{ID: "g34-mul-2", Domain: DomainMultiplication, GradeMin: 3, GradeMax: 4, Order: 2, Prompt: "What is 12 x 6?", Answer: "72"},
	{ID: "g34-mul-3", Domain: DomainMultiplication, GradeMin: 3, GradeMax: 4, Order: 3, Prompt: "What is 23 x 4?", Answer: "92"},
	{ID: "g34-div-1", Domain: DomainDivision, GradeMin: 3, GradeMax: 4, Order: 1, Prompt: "What is 56 / 7?", Answer: "8"},
	{ID: "g34-div-2", Domain: DomainDivision, GradeMin: 3, GradeMax: 4, Order: 2, Prompt: "What is 81 / 9?", Answer: "9"},
	{ID: "g34-div-3", Domain: DomainDivision, GradeMin: 3, GradeMax: 4, Order: 3, Prompt: "24 apples are shared by 6 kids. How many each?", Answer: "4"},
	// Grades 5-6
	{ID: "g56-mul-1", Domain: DomainMultiplication, GradeMin: 5, GradeMax: 6, Order: 1, Prompt: "What is 34 x 25?", Answer: "850"},
	{ID: "g56-mul-2", Domain: DomainMultiplication, GradeMin: 5, GradeMax: 6, Order: 2, Prompt: "What is 1.5 x 4?", Answer: "6"},
	{ID: "g56-mul-3", Domain: DomainMultiplication, GradeMin: 5, GradeMax: 6, Order: 3, Prompt: "What is 125 x 8?", Answer: "1000"},
	{ID: "g56-div-1", Domain: DomainDivision, GradeMin: 5, GradeMax: 6, Order: 1, Prompt: "What is 144 / 12?", Answer: "12"},
	{ID: "g56-div-2", Domain: DomainDivision, GradeMin: 5, GradeMax: 6, Order: 2, Prompt: "What is 7.5 / 3?", Answer: "2.5"},
	{ID: "g56-div-3", Domain: DomainDivision, GradeMin: 5, GradeMax: 6, Order: 3, Prompt: "What is 1,000 / 8?", Answer: "125"},
	{ID: "g56-frac-1", Domain: DomainFractions, GradeMin: 5, GradeMax: 6, Order: 1, Prompt: "What is 1/2 + 1/4?", Answer: "3/4"},
	{ID: "g56-frac-2", Domain: DomainFractions, GradeMin: 5, GradeMax: 6, Order: 2, Prompt: "What is 2/3 of 12?", Answer: "8"},
	{ID: "g56-frac-3", Domain: DomainFractions, GradeMin: 5, GradeMax: 6, Order: 3, Prompt: "Write 0.75 as a fraction in lowest terms.", Answer: "3/4"},
	{ID: "g56-geo-1", Domain: DomainGeometry, GradeMin: 5, GradeMax: 6, Order: 1, Prompt: "How many degrees are in a right angle?", Answer: "90"},
	{ID: "g56-geo-2", Domain: DomainGeometry, GradeMin: 5, GradeMax: 6, Order: 2, Prompt: "What is the area of a 6 by 4 rectangle?", Answer: "24"},
	{ID: "g56-geo-3", Domain: DomainGeometry, GradeMin: 5, GradeMax: 6, Order: 3, Prompt: "How many sides does a hexagon have?", Answer: "6"},
	// Grades 7-8
	{ID: "g78-frac-1", Domain: DomainFractions, GradeMin: 7, GradeMax: 8, Order: 1, Prompt: "What is 3/4 - 1/3?", Answer: "5/12"},
	{ID: "g78-frac-2", Domain: DomainFractions, GradeMin: 7, GradeMax: 8, Order: 2, Prompt: "What is 2/5 x 15?", Answer: "6"},
	{ID: "g78-frac-3", Domain: DomainFractions, GradeMin: 7, GradeMax: 8, Order: 3, Prompt: "What is 3/8 as a decimal?", Answer: "0.375"},
	{ID: "g78-geo-1", Domain: DomainGeometry, GradeMin: 7, GradeMax: 8, Order: 1, Prompt: "The angles of a triangle are 50 and 60 degrees. What is the third?", Answer: "70"},
	{ID: "g78-geo-2", Domain: DomainGeometry, GradeMin: 7, GradeMax: 8, Order: 2, Prompt: "What is the perimeter of a square with side 9?", Answer: "36"},
	{ID: "g78-geo-3", Domain: DomainGeometry, GradeMin: 7, GradeMax: 8, Order: 3, Prompt: "What is the area of a triangle with base 10 and height 7?", Answer: "35"},
	{ID: "g78-meas-1", Domain: DomainMeasurement, GradeMin: 7, GradeMax: 8, Order: 1, Prompt: "How many centimeters are in 2.5 meters?", Answer: "250"},
	{ID: "g78-meas-2", Domain: DomainMeasurement, GradeMin: 7, GradeMax: 8, Order: 2, Prompt: "How many minutes are in 3.5 hours?", Answer: "210"},
	{ID: "g78-meas-3", Domain: DomainMeasurement, GradeMin: 7, GradeMax: 8, Order: 3, Prompt: "How many grams are in 1.2 kilograms?", Answer: "1200"},
}

var defaultBank = MustNew(seedQuestions)

// Default returns the built-in question bank.
func Default() *Bank {
	return defaultBank
}
