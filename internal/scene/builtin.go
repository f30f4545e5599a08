package scene

import "github.com/lshigami/bizcoach/internal/session"

const questionOutputFormat = `
回答内容を踏まえ、さらに深掘りするための追加質問を作成してください。
次のJSON形式のみで出力してください:
{"questions": ["質問1", "質問2", "質問3"], "reasoning": "質問を選んだ理由"}`

var builtinScenes = []Scene{
	{
		ID:            "weekly-report",
		Name:          "週次報告会議",
		Description:   "上司やチームに今週の進捗と課題を簡潔に報告する練習です",
		Icon:          "📊",
		FixedQuestion: "今週の進捗状況と、現在直面している課題を具体的に説明してください",
		AIPrompt:      "あなたは週次報告会議の進行役を務めるマネージャーです。部下の報告に対して、課題の影響範囲、必要な支援、次のアクションを明確にする質問をしてください。" + questionOutputFormat,
	},
	{
		ID:            "project-proposal",
		Name:          "プロジェクト提案",
		Description:   "新しい企画の目的と効果を意思決定者に説明する練習です",
		Icon:          "💡",
		FixedQuestion: "提案したいプロジェクトの概要と、なぜ今それが必要なのかを説明してください",
		AIPrompt:      "あなたは提案を審査する事業部長です。提案者の説明に対して、予算、リスク、成功指標、実現可能性を確認する質問をしてください。" + questionOutputFormat,
	},
	{
		ID:            "problem-solving",
		Name:          "問題解決の議論",
		Description:   "発生している問題の原因と対策をチームで議論する練習です",
		Icon:          "🔧",
		FixedQuestion: "現在チームで直面している問題と、その影響について説明してください",
		AIPrompt:      "あなたは問題解決会議のファシリテーターです。発言者の説明に対して、根本原因、これまでの対策、理想の状態を掘り下げる質問をしてください。" + questionOutputFormat,
	},
	{
		ID:            "customer-presentation",
		Name:          "顧客へのプレゼン",
		Description:   "お客様に商品やサービスの価値を伝える練習です",
		Icon:          "🤝",
		FixedQuestion: "お客様の課題と、それを解決するためにご提案する商品・サービスを説明してください",
		AIPrompt:      "あなたは導入を検討している顧客企業の担当者です。説明に対して、競合との違い、効果が出るまでの期間、サポート体制を確認する質問をしてください。" + questionOutputFormat,
	},
}

var defaultQuestions = map[string][]string{
	"weekly-report": {
		"その課題の具体的な影響範囲を教えてください（誰が、いつまでに影響を受けますか？）",
		"解決のために必要なリソースやサポートは何ですか？",
		"次週までの具体的なアクションプランを教えてください",
	},
	"project-proposal": {
		"提案の実現に必要な予算とリソースの概算を教えてください",
		"想定されるリスクと、その対策について教えてください",
		"このプロジェクトの成功をどのように測定しますか？",
	},
	"problem-solving": {
		"この問題が発生した根本的な原因は何だと考えていますか？",
		"これまでに試した対策と、その結果を教えてください",
		"理想的な解決状態とは、具体的にどのような状態ですか？",
	},
	"customer-presentation": {
		"競合他社と比較した際の、御社の強みは何ですか？",
		"導入後、どのくらいの期間で効果が現れると見込んでいますか？",
		"導入時のサポート体制について教えてください",
	},
}

var genericFeedback = session.Feedback{
	Summary: "全体的によく整理されたプレゼンテーションでした。基本的な要素は押さえられています。",
	GoodPoints: []session.GoodPoint{
		{Aspect: "構成", Comment: "論理的に構成されており、聞き手が理解しやすい流れになっていました"},
		{Aspect: "姿勢", Comment: "前向きな姿勢が伝わり、課題に真摯に取り組んでいることが感じられました"},
	},
	ImprovementPoints: []session.ImprovementPoint{
		{
			Aspect:   "具体性",
			Improved: "数値や具体的な事例を加えることで、より説得力が増します",
			Reason:   "抽象的な表現よりも、具体的なデータや実例の方が相手に伝わりやすく、信頼性も高まります",
		},
	},
	Encouragement: "次回も頑張ってください！継続的な練習が、確実にあなたのコミュニケーション力を向上させます。",
	Source:        session.SourceDefault,
}

var defaultFeedbackByScene = map[string]session.Feedback{
	"weekly-report": {
		Summary: "進捗報告として基本的な要素が含まれており、現状が把握できました。",
		GoodPoints: []session.GoodPoint{
			{Aspect: "現状把握", Comment: "今週の進捗状況を明確に伝えようとする姿勢が良かったです"},
			{Aspect: "課題認識", Comment: "直面している課題について言及されており、問題意識が伝わりました"},
		},
		ImprovementPoints: []session.ImprovementPoint{
			{
				Aspect:   "具体性",
				Original: "進捗があります",
				Improved: "全体の60%が完了しており、予定より2日遅れていますが、週末までにリカバリー可能です",
				Reason:   "数値や期限を明確にすることで、聞き手が状況を正確に理解でき、適切なサポートも受けやすくなります",
			},
			{
				Aspect:   "次のアクション",
				Original: "対応します",
				Improved: "明日午前中にチームミーティングを開き、木曜までに解決策を決定します",
				Reason:   "具体的なアクションと期限を示すことで、計画性と実行力をアピールできます",
			},
		},
		Encouragement: "報告の基本はできています。次は数値や期限を意識して報告すると、さらに信頼性が高まります！",
		Source:        session.SourceDefault,
	},
	"project-proposal": {
		Summary: "提案の骨組みは理解できました。アイデアの核心は伝わっています。",
		GoodPoints: []session.GoodPoint{
			{Aspect: "目的の明確さ", Comment: "プロジェクトの目的を伝えようとする意識が感じられました"},
			{Aspect: "必要性の認識", Comment: "なぜ今このプロジェクトが必要なのか、問題意識を持っていることが伝わりました"},
		},
		ImprovementPoints: []session.ImprovementPoint{
			{
				Aspect:   "期待効果",
				Original: "効果があります",
				Improved: "導入後3ヶ月で業務時間を20%削減でき、年間で約300万円のコスト削減が見込めます",
				Reason:   "定量的な効果を示すことで、投資対効果が明確になり、承認を得やすくなります",
			},
			{
				Aspect:   "実現可能性",
				Original: "実施できます",
				Improved: "既存システムとの連携は2週間で完了可能で、担当者3名で運用できます",
				Reason:   "具体的なリソースと期間を示すことで、提案の実現可能性が高まります",
			},
		},
		Encouragement: "良いアイデアです！次は数値で効果を示すと、さらに説得力のある提案になります。",
		Source:        session.SourceDefault,
	},
	"problem-solving": {
		Summary: "問題の把握はできており、解決に向けた意識が感じられました。",
		GoodPoints: []session.GoodPoint{
			{Aspect: "問題認識", Comment: "現在直面している問題について、しっかりと認識していることが伝わりました"},
			{Aspect: "影響の理解", Comment: "問題が引き起こしている影響について言及しており、深刻度を理解していることが分かりました"},
		},
		ImprovementPoints: []session.ImprovementPoint{
			{
				Aspect:   "根本原因",
				Original: "問題が発生しています",
				Improved: "○○の手順が明文化されていないため、担当者によって対応が異なり、ミスが発生しています",
				Reason:   "根本原因を明確にすることで、表面的な対処ではなく、本質的な解決策を導き出せます",
			},
			{
				Aspect:   "対策の具体性",
				Original: "改善します",
				Improved: "手順書を作成し、全員で確認会を実施。1週間のトライアル後、正式運用を開始します",
				Reason:   "具体的なステップを示すことで、解決への道筋が明確になり、実行可能性が高まります",
			},
		},
		Encouragement: "問題の本質を見極めようとする姿勢が素晴らしいです。次は原因分析をさらに深めてみましょう！",
		Source:        session.SourceDefault,
	},
	"customer-presentation": {
		Summary: "お客様への提案として基本的な構成ができており、商品・サービスの魅力が伝わってきました。",
		GoodPoints: []session.GoodPoint{
			{Aspect: "課題理解", Comment: "お客様の課題を理解し、それを解決しようとする姿勢が感じられました"},
			{Aspect: "ソリューション提示", Comment: "提案する商品・サービスの特徴について説明されていました"},
		},
		ImprovementPoints: []session.ImprovementPoint{
			{
				Aspect:   "顧客メリット",
				Original: "便利になります",
				Improved: "御社の受注処理時間が現在の30分から5分に短縮でき、1日あたり約2時間の工数削減が実現します",
				Reason:   "顧客視点での具体的なメリットを数値で示すことで、導入後のイメージが明確になり、購買意欲が高まります",
			},
			{
				Aspect:   "差別化",
				Original: "良い製品です",
				Improved: "競合A社と比較して、導入コストが30%低く、サポート体制は24時間365日対応です",
				Reason:   "競合との明確な違いを示すことで、なぜ御社を選ぶべきなのかが明確になります",
			},
		},
		Encouragement: "お客様のことを考えた提案ができています。次は具体的な数値とメリットを強調すると、さらに響くプレゼンになります！",
		Source:        session.SourceDefault,
	},
}
