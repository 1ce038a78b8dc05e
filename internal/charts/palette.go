package charts

// Color hints per chart role
const (
	ColorDistribution = "#4F46E5"
	ColorBoxplot      = "#6366F1"
	ColorFrequency    = "#10B981"
	ColorNormality    = "#6366F1"
	ColorQQ           = "#EC4899"
	ColorTwoGroup     = "#2563EB"
	ColorPaired       = "#8B5CF6"
	ColorANOVA        = "#8B5CF6"
	ColorMannWhitney  = "#14B8A6"
	ColorKruskal      = "#F59E0B"
	ColorCorrelation  = "#8B5CF6"
	ColorRegression   = "#F43F5E"
	ColorChiSquare    = "#06B6D4"
	ColorReliability  = "#F784C5"
	ColorValidity     = "#8B5CF6"
)
